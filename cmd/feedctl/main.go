package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"coinfeed/internal/cli"
	"coinfeed/internal/config"
	"coinfeed/pkg/market"

	// Import for side-effects: registers the coinbase provider.
	_ "coinfeed/pkg/market/exchanges/coinbase"
)

var (
	configFile  = flag.String("f", "etc/coinfeed.yaml", "the config file")
	providerArg = flag.String("provider", "", "provider name (defaults to the config default)")
	productID   = flag.String("product", "BTC-USD", "product id")
	granularity = flag.Int("granularity", 3600, "candle granularity in seconds")
	startArg    = flag.String("start", "", "range start (RFC3339)")
	endArg      = flag.String("end", "", "range end (RFC3339)")
	listOnly    = flag.Bool("products", false, "list products instead of fetching candles")
	timeoutArg  = flag.Duration("timeout", 2*time.Minute, "overall timeout")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime)

	appCfg, err := config.Load(*configFile)
	if err != nil {
		log.Printf("[main] Warning: failed to load app config: %v", err)
		appCfg = &config.Config{Env: "dev"}
	}
	cli.LogConfigSummary(appCfg)

	marketCfg := appCfg.Market.Value
	if marketCfg == nil {
		marketCfg = config.MustLoadMarket()
	}

	providers, err := marketCfg.BuildProviders()
	if err != nil {
		log.Fatalf("[main] build market providers: %v", err)
	}
	name := *providerArg
	if name == "" {
		name = marketCfg.Default
	}
	provider, ok := providers[name]
	if !ok {
		log.Fatalf("[main] unknown provider %q", name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutArg)
	defer cancel()

	if *listOnly {
		products, err := provider.Products(ctx)
		if err != nil {
			log.Fatalf("[main] list products: %v", err)
		}
		for _, product := range products {
			fmt.Printf("%-14s %s/%s active=%t\n", product.ID, product.Base, product.Quote, product.IsActive)
		}
		return
	}

	query := market.CandleQuery{Granularity: *granularity}
	if *startArg != "" || *endArg != "" {
		query.Start, err = time.Parse(time.RFC3339, *startArg)
		if err != nil {
			log.Fatalf("[main] parse -start: %v", err)
		}
		query.End, err = time.Parse(time.RFC3339, *endArg)
		if err != nil {
			log.Fatalf("[main] parse -end: %v", err)
		}
	}

	candles, err := provider.Candles(ctx, *productID, query)
	if err != nil {
		log.Fatalf("[main] fetch candles: %v", err)
	}
	for _, candle := range candles {
		fmt.Printf("%s  O=%.8g H=%.8g L=%.8g C=%.8g V=%.8g\n",
			candle.TimeISO, candle.Open, candle.High, candle.Low, candle.Close, candle.Volume)
	}
	log.Printf("[main] fetched %d candles for %s", len(candles), *productID)
}
