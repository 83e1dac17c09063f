// Package seed fills a database with randomized sample data for local
// development: users, events across a few categories, registrations in
// every state and a handful of settled ticket orders.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/wildanre/Evently-sub001/internal/models"
	"github.com/wildanre/Evently-sub001/internal/store"
)

var firstNames = []string{
	"Ana", "Bayu", "Citra", "Dimas", "Eka", "Farah", "Gilang", "Hana",
	"Indra", "Joko", "Kartika", "Lukman", "Maya", "Nanda", "Oscar", "Putri",
}

var lastNames = []string{
	"Pratama", "Sari", "Wijaya", "Utami", "Santoso", "Lestari", "Hidayat", "Anggraini",
}

var categories = []string{"tech", "music", "sports", "workshop", "community"}

var eventNames = []string{
	"Go Meetup", "Indie Night", "City Run", "Design Workshop", "Startup Demo Day",
	"Open Mic", "Hack Day", "Book Club", "Food Festival", "Art Exhibition",
}

var locations = []string{"Jakarta", "Bandung", "Yogyakarta", "Surabaya", "Bali", "Online"}

// Seeder writes sample rows through the regular store layer so seeded
// data obeys the same constraints as real traffic.
type Seeder struct {
	store *store.Store
	rng   *rand.Rand
}

func New(st *store.Store) *Seeder {
	return &Seeder{
		store: st,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run creates userCount users and eventCount events, then registers a
// random subset of users for each event.
func (s *Seeder) Run(userCount, eventCount int) error {
	users, err := s.seedUsers(userCount)
	if err != nil {
		return err
	}

	events, err := s.seedEvents(eventCount, users)
	if err != nil {
		return err
	}

	if err := s.seedRegistrations(events, users); err != nil {
		return err
	}

	log.Printf("[SEED] Done: %d users, %d events", len(users), len(events))
	return nil
}

func (s *Seeder) seedUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s %s",
			firstNames[s.rng.Intn(len(firstNames))],
			lastNames[s.rng.Intn(len(lastNames))])
		email := fmt.Sprintf("user%d@example.com", i+1)

		user, err := models.NewUser(name, email, "Evently!123")
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", email, err)
		}
		if err := s.store.CreateUser(user); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", email, err)
		}
		users = append(users, user)
	}
	log.Printf("[SEED] Created %d users", len(users))
	return users, nil
}

func (s *Seeder) seedEvents(count int, users []*models.User) ([]*models.Event, error) {
	events := make([]*models.Event, 0, count)
	for i := 0; i < count; i++ {
		organizer := users[s.rng.Intn(len(users))]
		if organizer.Role == models.RoleAttendee {
			if err := s.store.SetUserRole(organizer.ID, models.RoleOrganizer); err != nil {
				return nil, fmt.Errorf("promote organizer: %w", err)
			}
			organizer.Role = models.RoleOrganizer
		}

		startsAt := time.Now().AddDate(0, 0, 1+s.rng.Intn(60)).Truncate(time.Hour)
		price := 0.0
		if s.rng.Intn(3) == 0 {
			price = float64(5 * (1 + s.rng.Intn(20)))
		}

		event := &models.Event{
			OrganizerID:     organizer.ID,
			Name:            fmt.Sprintf("%s #%d", eventNames[s.rng.Intn(len(eventNames))], i+1),
			Description:     "Sample event generated for development.",
			Location:        locations[s.rng.Intn(len(locations))],
			Category:        categories[s.rng.Intn(len(categories))],
			StartsAt:        startsAt,
			EndsAt:          startsAt.Add(time.Duration(2+s.rng.Intn(6)) * time.Hour),
			TicketPrice:     price,
			Capacity:        s.rng.Intn(5) * 25, // 0 means unlimited
			RequireApproval: s.rng.Intn(4) == 0,
			DeferredPayment: price > 0 && s.rng.Intn(5) == 0,
		}
		if err := s.store.CreateEvent(event); err != nil {
			return nil, fmt.Errorf("seed event %s: %w", event.Name, err)
		}
		events = append(events, event)
	}
	log.Printf("[SEED] Created %d events", len(events))
	return events, nil
}

func (s *Seeder) seedRegistrations(events []*models.Event, users []*models.User) error {
	total := 0
	for _, event := range events {
		active := 0
		for _, user := range users {
			if user.ID == event.OrganizerID || s.rng.Intn(3) != 0 {
				continue
			}
			if !event.HasCapacity(active) {
				break
			}

			status := models.RegistrationJoined
			if event.RequireApproval {
				switch s.rng.Intn(3) {
				case 0:
					status = models.RegistrationPending
				case 1:
					status = models.RegistrationRejected
				}
			}

			reg := &models.Registration{EventID: event.ID, UserID: user.ID, Status: status}
			if err := s.store.CreateRegistration(reg); err != nil {
				return fmt.Errorf("seed registration: %w", err)
			}
			total++
			if reg.IsActive() {
				active++
			}

			if event.IsPaid() && status == models.RegistrationJoined && s.rng.Intn(2) == 0 {
				if err := s.seedPaidOrder(event, user); err != nil {
					return err
				}
			}
		}
	}
	log.Printf("[SEED] Created %d registrations", total)
	return nil
}

func (s *Seeder) seedPaidOrder(event *models.Event, user *models.User) error {
	order := &models.PaymentOrder{
		EventID:     event.ID,
		UserID:      user.ID,
		OrderNumber: fmt.Sprintf("EVT-SEED%08d", s.rng.Intn(100000000)),
		Amount:      event.TicketPrice,
		Currency:    "USD",
	}
	if err := s.store.CreatePaymentOrder(order); err != nil {
		return fmt.Errorf("seed order: %w", err)
	}
	if err := s.store.MarkOrderPaid(order.ID, "seed", time.Now().UTC()); err != nil {
		return fmt.Errorf("seed order settle: %w", err)
	}
	return nil
}
