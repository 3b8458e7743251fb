package global

import (
	"github.com/bussin/bussin/pkg/config"
	"github.com/bussin/bussin/pkg/dataaggregator"
	"github.com/bussin/bussin/pkg/dataaggregator/source/cachedresults"
	"github.com/bussin/bussin/pkg/dataaggregator/source/databaselookup"
	delijnsource "github.com/bussin/bussin/pkg/dataaggregator/source/delijn"
	"github.com/bussin/bussin/pkg/delijn"
	"github.com/bussin/bussin/pkg/matchstats"
	"github.com/bussin/bussin/pkg/reconcile"
	"github.com/bussin/bussin/pkg/redis_client"
	"github.com/bussin/bussin/pkg/transforms"
	"github.com/rs/zerolog/log"
)

// DeLijnSource and MatchRecorder are the instances registered by Setup, kept
// for the services that warm the cache or report match rates.
var DeLijnSource *delijnsource.Source
var MatchRecorder *matchstats.Recorder

func Setup(appConfig *config.AppConfig) error {
	dataaggregator.GlobalAggregator = dataaggregator.Aggregator{}

	location, err := appConfig.Location()
	if err != nil {
		return err
	}

	if err := transforms.SetupClient(appConfig.TransformsDirectory); err != nil {
		return err
	}

	var cache *cachedresults.Cache
	if redis_client.Client != nil {
		cache = cachedresults.New(redis_client.Client, appConfig.CacheExpiryDuration())
	} else {
		log.Warn().Msg("Redis is not connected, transit API responses will not be cached")
	}

	MatchRecorder = matchstats.NewRecorder()

	DeLijnSource = &delijnsource.Source{
		Client: delijn.NewClient(appConfig.Provider.BaseURL, appConfig.Provider.APIKey, appConfig.ProviderTimeout()),
		Cache:  cache,
		Engine: reconcile.NewEngine(
			reconcile.WithLocation(location),
			reconcile.WithObserver(MatchRecorder),
		),
		Transformer:   transforms.Default(),
		Location:      location,
		MaxArrivals:   appConfig.MaxArrivals,
		DefaultWindow: appConfig.ArrivalWindowDuration(),
	}
	dataaggregator.GlobalAggregator.RegisterSource(*DeLijnSource)

	dataaggregator.GlobalAggregator.RegisterSource(databaselookup.Source{})

	return nil
}
