// Command seed creates the demo professor and students and publishes a week
// of availability. Running it twice is harmless.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"campus-scheduler/internal/account"
	"campus-scheduler/internal/booking"
	"campus-scheduler/internal/config"
	"campus-scheduler/internal/model"
	"campus-scheduler/internal/store"
)

const password = "password123"

var users = []account.RegisterInput{
	{Name: "Professor John Doe", Email: "john.doe@university.com", Password: password, Role: string(model.RoleProfessor)},
	{Name: "Student Jane Smith", Email: "jane.smith@student.com", Password: password, Role: string(model.RoleStudent)},
	{Name: "Student John Cena", Email: "john.cena@student.com", Password: password, Role: string(model.RoleStudent)},
}

func main() {
	cfgPath := flag.String("config", "config/config.yaml", "path to config file")
	days := flag.Int("days", 5, "days of availability to publish")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	st, closeStore, err := store.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer closeStore()

	accounts := account.New(st, account.Options{Secret: cfg.Auth.JWTSecret})
	bk := booking.New(st, booking.Options{Location: cfg.Booking.Location})

	var professor *model.User
	for _, in := range users {
		u, err := ensureUser(ctx, accounts, in)
		if err != nil {
			log.Fatalf("seed %s: %v", in.Email, err)
		}
		log.Printf("user %s (%s) %s", u.Email, u.Role, u.ID)
		if u.Role == model.RoleProfessor {
			professor = u
		}
	}

	prof := booking.Actor{ID: professor.ID, Role: model.RoleProfessor}
	start := time.Now().In(cfg.Booking.Location)
	for i := 1; i <= *days; i++ {
		date := start.AddDate(0, 0, i).Format(model.DateLayout)
		slot, err := bk.AddAvailability(ctx, prof, booking.SlotRequest{
			Date:      date,
			StartTime: "10:00 AM",
			EndTime:   "12:00 PM",
		})
		if booking.ReasonOf(err) == booking.DuplicateSlot {
			continue
		}
		if err != nil {
			log.Fatalf("availability %s: %v", date, err)
		}
		log.Printf("availability %s %s-%s (%s)", slot.Date, slot.Start, slot.End, slot.Day)
	}
	log.Println("seed data initialized")
}

func ensureUser(ctx context.Context, accounts *account.Service, in account.RegisterInput) (*model.User, error) {
	sess, err := accounts.Register(ctx, in)
	if errors.Is(err, account.ErrEmailTaken) {
		sess, err = accounts.Login(ctx, in.Email, in.Password)
	}
	if err != nil {
		return nil, err
	}
	return sess.User, nil
}
