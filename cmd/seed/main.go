package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/swasthyalink/backend/internal/adapters/database"
	"github.com/swasthyalink/backend/internal/adapters/providers/geolocation"
	"github.com/swasthyalink/backend/internal/domain/entities"
	"github.com/swasthyalink/backend/internal/infrastructure/clients/postgres"
	"github.com/swasthyalink/backend/pkg/config"
)

var (
	firstNames = []string{
		"Aarav", "Vivaan", "Aditya", "Arjun", "Reyansh", "Ananya",
		"Diya", "Ishaan", "Kavya", "Meera", "Rohan", "Saanvi",
		"Kabir", "Priya", "Nikhil", "Sneha", "Rahul", "Pooja",
	}
	lastNames = []string{
		"Sharma", "Verma", "Patel", "Reddy", "Nair", "Iyer",
		"Singh", "Gupta", "Das", "Mehta", "Joshi", "Rao",
	}
	specialties = []string{
		"cardiology", "neurology", "oncology", "orthopedics",
		"pediatrics", "emergency",
	}
	qualifications = []string{"MBBS", "MD", "MS", "DM", "MCh"}
	costLevels     = []string{"low", "medium", "high"}
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				facility_blood_inventory,
				facility_specialties,
				providers,
				donors,
				facilities
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	seed := int64(7)
	if raw := os.Getenv("SEED_RANDOM_SEED"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			seed = parsed
		}
	}
	rng := rand.New(rand.NewSource(seed))

	donorRepo := database.NewDonorAdapter(pgClient)
	facilityRepo := database.NewFacilityAdapter(pgClient)
	providerRepo := database.NewProviderAdapter(pgClient)

	registry := geolocation.NewGazetteerRegistry()
	cities := geolocation.Cities()

	// 1. Seed facilities: a few hospitals per city with blood inventory
	// and specialty departments.
	var facilityIDs []string
	for _, city := range cities {
		loc := registry.Resolve(city)
		for i := 0; i < 3; i++ {
			facility := &entities.Facility{
				ID:                   uuid.New().String(),
				Name:                 fmt.Sprintf("%s General Hospital %d", city, i+1),
				City:                 loc.City,
				State:                loc.State,
				Location:             jitter(rng, loc.Latitude, loc.Longitude),
				Contact:              randomPhone(rng),
				EmergencyContact:     randomPhone(rng),
				BedCapacity:          100 + rng.Intn(400),
				ICUBeds:              5 + rng.Intn(60),
				OperationTheaters:    2 + rng.Intn(10),
				IsGovernment:         rng.Intn(2) == 0,
				HasBloodBank:         rng.Float64() < 0.7,
				OverallRating:        roundRating(3.0 + rng.Float64()*2),
				EquipmentQuality:     roundRating(3.0 + rng.Float64()*2),
				DoctorExpertise:      roundRating(3.0 + rng.Float64()*2),
				InfrastructureRating: roundRating(3.0 + rng.Float64()*2),
				PatientSatisfaction:  roundRating(3.0 + rng.Float64()*2),
				WaitTimeMinutes:      15 + rng.Intn(120),
				CostLevel:            costLevels[rng.Intn(len(costLevels))],
				InsuranceAccepted:    rng.Float64() < 0.8,
				HasEmergencyServices: rng.Float64() < 0.6,
				HasAmbulance:         rng.Float64() < 0.7,
			}

			if facility.HasBloodBank {
				facility.BloodInventory = map[entities.BloodType]int{}
				for _, bt := range entities.BloodTypes {
					facility.BloodInventory[bt] = rng.Intn(25)
				}
			}

			facility.Specialties = map[string]entities.SpecialtyDepartment{}
			for _, specialty := range specialties {
				if rng.Float64() > 0.5 {
					continue
				}
				facility.Specialties[specialty] = entities.SpecialtyDepartment{
					Rating:             roundRating(3.0 + rng.Float64()*2),
					DoctorCount:        2 + rng.Intn(20),
					SuccessRatePercent: 75 + rng.Float64()*24,
					WaitDays:           rng.Intn(21),
				}
			}

			if err := facilityRepo.Create(ctx, facility); err != nil {
				log.Printf("Failed to create facility %s: %v", facility.Name, err)
				continue
			}
			facilityIDs = append(facilityIDs, facility.ID)

			// 2. Seed providers for each specialty department.
			for specialty := range facility.Specialties {
				for j := 0; j < 1+rng.Intn(3); j++ {
					provider := &entities.Provider{
						ID:                  uuid.New().String(),
						Name:                "Dr. " + randomName(rng),
						Specialty:           specialty,
						ExperienceYears:     2 + rng.Intn(35),
						Qualification:       qualifications[rng.Intn(len(qualifications))],
						FacilityID:          facility.ID,
						Rating:              roundRating(3.0 + rng.Float64()*2),
						ConsultationFee:     300 + rng.Intn(2000),
						AvailabilityStatus:  "available",
						ProceduresPerformed: rng.Intn(1500),
						SuccessRatePercent:  75 + rng.Float64()*24,
						ReviewCount:         rng.Intn(500),
					}
					if err := providerRepo.Create(ctx, provider); err != nil {
						log.Printf("Failed to create provider %s: %v", provider.Name, err)
					}
				}
			}
		}
	}

	// 3. Seed donors spread across the gazetteer cities.
	donorCount := 500
	if raw := os.Getenv("SEED_DONOR_COUNT"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			donorCount = parsed
		}
	}

	created := 0
	for i := 0; i < donorCount; i++ {
		city := cities[rng.Intn(len(cities))]
		loc := registry.Resolve(city)

		donor := &entities.Donor{
			ID:            uuid.New().String(),
			Name:          randomName(rng),
			Age:           18 + rng.Intn(48),
			Gender:        []string{"male", "female"}[rng.Intn(2)],
			BloodType:     entities.BloodTypes[rng.Intn(len(entities.BloodTypes))],
			City:          loc.City,
			State:         loc.State,
			Phone:         randomPhone(rng),
			Email:         fmt.Sprintf("donor%04d@example.in", i),
			DonationCount: rng.Intn(12),
			IsAvailable:   rng.Float64() < 0.8,
			WeightKg:      48 + rng.Intn(50),
		}
		if rng.Float64() < 0.7 {
			last := time.Now().AddDate(0, 0, -rng.Intn(365))
			donor.LastDonation = &last
		}

		if err := donorRepo.Create(ctx, donor); err != nil {
			log.Printf("Failed to create donor %s: %v", donor.Name, err)
			continue
		}
		created++
	}

	log.Printf("Seeding complete: %d facilities, %d donors", len(facilityIDs), created)
}

func randomName(rng *rand.Rand) string {
	return firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
}

func randomPhone(rng *rand.Rand) string {
	return fmt.Sprintf("+91-%d", 7000000000+rng.Int63n(3000000000))
}

func roundRating(v float64) float64 {
	return float64(int(v*10)) / 10
}

func jitter(rng *rand.Rand, lat, lon float64) entities.Location {
	// Scatter facilities within roughly 10 km of the city center.
	return entities.Location{
		Latitude:  lat + (rng.Float64()-0.5)*0.18,
		Longitude: lon + (rng.Float64()-0.5)*0.18,
	}
}
