package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"trailbook/internal/database"
	"trailbook/internal/domain"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "trailbook.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Experience{},
		&domain.Slot{},
		&domain.Booking{},
		&domain.Participant{},
		&domain.PaymentSplit{},
		&domain.WaitlistEntry{},
		&domain.Notification{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM waitlist_entries")
	db.Exec("DELETE FROM payment_splits")
	db.Exec("DELETE FROM participants")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM slots")
	db.Exec("DELETE FROM experiences")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	hosts := []domain.User{}
	hostEmails := []string{"marat@altaytrails.kz", "aigerim@steppewalks.kz"}
	for i, email := range hostEmails {
		host := domain.User{
			Email: email,
			Name:  fmt.Sprintf("Host %d", i+1),
			Phone: fmt.Sprintf("+7 701 555 01%02d", i+10),
			Role:  domain.RoleHost,
		}
		db.Create(&host)
		hosts = append(hosts, host)
	}

	travelers := []domain.User{}
	travelerEmails := []string{"asel@mail.kz", "bekzat@gmail.com", "dina@yandex.kz", "timur@mail.kz"}
	for i, email := range travelerEmails {
		t := domain.User{
			Email: email,
			Name:  fmt.Sprintf("Traveler %d", i+1),
			Phone: fmt.Sprintf("+7 777 123 45%02d", i+67),
			Role:  domain.RoleTraveler,
		}
		db.Create(&t)
		travelers = append(travelers, t)
	}

	// ================== EXPERIENCES ==================
	log.Println("Creating experiences...")

	today := time.Now().UTC().Truncate(24 * time.Hour)

	experiences := []domain.Experience{
		{
			HostID:      hosts[0].ID,
			Title:       "Kolsai Lakes Day Hike",
			Description: "Guided hike along the first and second Kolsai lakes with a picnic lunch.",
			Location:    "Kolsai, Almaty Region",
			BasePrice:   120,
		},
		{
			HostID:      hosts[0].ID,
			Title:       "Charyn Canyon Sunrise Tour",
			Description: "Early departure, sunrise at the Valley of Castles, breakfast included.",
			Location:    "Charyn, Almaty Region",
			BasePrice:   95,
		},
		{
			HostID:      hosts[1].ID,
			Title:       "Old Town Food Walk",
			Description: "Four stops, six dishes, two hours of local stories.",
			Location:    "Almaty",
			BasePrice:   45,
		},
	}

	for i := range experiences {
		exp := &experiences[i]
		db.Create(exp)

		for day := 1; day <= 7; day++ {
			for _, start := range []string{"09:00", "14:00"} {
				slot := domain.Slot{
					ExperienceID: exp.ID,
					Date:         today.AddDate(0, 0, day),
					StartTime:    start,
					Capacity:     8,
				}
				if start == "09:00" {
					// morning departures carry a small premium
					slot.PriceOverride = exp.BasePrice + 10
				}
				db.Create(&slot)
			}
		}
	}

	log.Printf("Seeded %d hosts, %d travelers, %d experiences", len(hosts), len(travelers), len(experiences))
}
