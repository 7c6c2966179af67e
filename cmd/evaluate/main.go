package main

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/swasthyalink/backend/internal/adapters/cache"
	"github.com/swasthyalink/backend/internal/adapters/database"
	"github.com/swasthyalink/backend/internal/adapters/providers/classifier"
	"github.com/swasthyalink/backend/internal/adapters/providers/geolocation"
	"github.com/swasthyalink/backend/internal/application/services"
	"github.com/swasthyalink/backend/internal/domain/entities"
	"github.com/swasthyalink/backend/internal/infrastructure/clients/postgres"
	redisclient "github.com/swasthyalink/backend/internal/infrastructure/clients/redis"
	"github.com/swasthyalink/backend/internal/infrastructure/observability"
	"github.com/swasthyalink/backend/pkg/config"
)

// evaluate runs a representative request of each engine operation against
// the live directories and prints the reports as JSON. Used as a smoke
// check after seeding.
func main() {
	cfg, err := config.Load()
	if err != nil {
		observability.InitLogger("matching-evaluate", "development")
		observability.GetLogger().Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger("matching-evaluate", os.Getenv("APP_ENV"))
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Warn().Err(err).Msg("failed to shut down OpenTelemetry")
				}
			}()
			if err := runtime.Start(); err != nil {
				logger.Warn().Err(err).Msg("failed to start runtime instrumentation")
			}
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to init metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	donorRepo := database.NewDonorAdapter(pgClient)
	facilityRepo := database.NewFacilityAdapter(pgClient)
	providerRepo := database.NewProviderAdapter(pgClient)
	if metrics != nil {
		donorRepo.SetMetrics(metrics)
		facilityRepo.SetMetrics(metrics)
		providerRepo.SetMetrics(metrics)
	}
	registry := geolocation.NewGazetteerRegistry()

	specialtyClassifier := classifier.NewGracefulClassifier(classifier.NewKeywordClassifier())
	if redisCli, err := redisclient.NewClient(&cfg.Redis); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, classifying without cache")
	} else {
		defer redisCli.Close()
		specialtyClassifier.SetCache(cache.NewRedisAdapter(redisCli))
	}

	donorMatching := services.NewDonorMatchingService(donorRepo, registry, cfg.Matching)
	if raw := os.Getenv("EVAL_SEED"); raw != "" {
		if seed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			donorMatching.SetSeed(seed)
		}
	}
	availability := services.NewBloodAvailabilityService(facilityRepo, registry, cfg.Matching)
	recommendation := services.NewHospitalRecommendationService(facilityRepo, specialtyClassifier, registry, cfg.Matching)
	ranking := services.NewDoctorRankingService(providerRepo, cfg.Matching)

	start := time.Now()
	donorReport, err := donorMatching.FindCompatibleDonors(ctx, entities.BloodRequest{
		BloodType: entities.BloodOPositive,
		City:      "Delhi",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("donor matching failed")
	}
	record(ctx, metrics, "donor_match", len(donorReport.Donors), start)
	logger.Info().
		Int("donors", len(donorReport.Donors)).
		Float64("radius_km", donorReport.SearchRadiusKm).
		Msg("donor matching complete")
	printJSON(donorReport)

	start = time.Now()
	availabilityReport, err := availability.CheckAvailability(ctx, entities.BloodONegative, "Mumbai", 0)
	if err != nil {
		logger.Fatal().Err(err).Msg("availability check failed")
	}
	record(ctx, metrics, "availability", len(availabilityReport.FacilitiesWithBlood), start)
	logger.Info().
		Int("facilities", len(availabilityReport.FacilitiesWithBlood)).
		Int("total_units", availabilityReport.TotalUnits).
		Msg("availability check complete")
	printJSON(availabilityReport)

	start = time.Now()
	recommendationReport, err := recommendation.Recommend(ctx, entities.HospitalQuery{
		IssueText: "chest pain and breathing difficulty",
		City:      "Chennai",
		Urgency:   entities.UrgencyHigh,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("hospital recommendation failed")
	}
	record(ctx, metrics, "hospital_recommend", len(recommendationReport.Results), start)
	logger.Info().
		Str("specialty", recommendationReport.Specialty).
		Int("results", len(recommendationReport.Results)).
		Msg("hospital recommendation complete")
	printJSON(recommendationReport)

	start = time.Now()
	doctors, err := ranking.RankDoctors(ctx, recommendationReport.Specialty, "")
	if err != nil {
		logger.Fatal().Err(err).Msg("doctor ranking failed")
	}
	record(ctx, metrics, "doctor_rank", len(doctors), start)
	logger.Info().Int("doctors", len(doctors)).Msg("doctor ranking complete")
	printJSON(doctors)
}

func record(ctx context.Context, metrics *observability.Metrics, operation string, results int, start time.Time) {
	if metrics == nil {
		return
	}
	observability.RecordMatchMetric(ctx, metrics, operation, results, time.Since(start))
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		observability.GetLogger().Warn().Err(err).Msg("failed to marshal report")
		return
	}
	os.Stdout.Write(append(data, '\n'))
}
