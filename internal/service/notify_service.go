package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"sync"
	"time"

	"carrental/internal/clock"
	"carrental/internal/db"
	"carrental/internal/entities"
	"carrental/internal/repository"
)

//go:embed templates/reservation_email.html
var templatesFS embed.FS

var emailTemplate = template.Must(template.ParseFS(templatesFS, "templates/reservation_email.html"))

const notifyTimeout = 30 * time.Second

// Notifier is told about every reservation change that concerns its user.
type Notifier interface {
	ReservationChanged(ctx context.Context, res db.Reservation)
}

type NoopNotifier struct{}

func (NoopNotifier) ReservationChanged(context.Context, db.Reservation) {}

// NotificationService emails and texts the reservation's user in the
// background. Delivery failures are logged and never reach the caller.
type NotificationService struct {
	users    repository.UserStore
	vehicles repository.VehicleStore
	email    EmailSender
	sms      SMSSender
	clock    clock.Clock

	wg sync.WaitGroup
}

// NewNotificationService accepts nil senders; the matching channel is then skipped.
func NewNotificationService(users repository.UserStore, vehicles repository.VehicleStore, email EmailSender, sms SMSSender, clk clock.Clock) *NotificationService {
	return &NotificationService{users: users, vehicles: vehicles, email: email, sms: sms, clock: clk}
}

func (s *NotificationService) ReservationChanged(ctx context.Context, res db.Reservation) {
	if s.email == nil && s.sms == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := s.notify(ctx, res); err != nil {
			log.Printf("Notification for reservation %d failed: %v", res.ID, err)
		}
	}()
}

// Wait blocks until every pending notification has been attempted.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) notify(ctx context.Context, res db.Reservation) error {
	user, err := s.users.GetByID(ctx, res.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %d not found", res.UserID)
	}
	vehicle, err := s.vehicles.GetByID(ctx, res.VehicleID)
	if err != nil {
		return err
	}
	if vehicle == nil {
		return fmt.Errorf("vehicle %d not found", res.VehicleID)
	}

	data := entities.ReservationEmailData{
		UserName:      user.Username,
		ReservationID: res.ID,
		VehicleName:   vehicle.Name,
		VehiclePlate:  vehicle.PlateNumber,
		StartDate:     res.StartDate.String(),
		EndDate:       res.EndDate.String(),
		Status:        string(res.Status),
		CurrentYear:   s.clock.Now().Year(),
	}

	if s.email != nil && user.Email != "" {
		subject, plain, html, err := renderReservationEmail(data)
		if err != nil {
			log.Printf("Error rendering email for reservation %d: %v", res.ID, err)
		}
		if err := s.email.SendEmail(ctx, user.Email, user.Username, subject, plain, html); err != nil {
			log.Printf("Email for reservation %d failed: %v", res.ID, err)
		}
	}
	if s.sms != nil && user.Phone != "" {
		if err := s.sms.SendSMS(ctx, user.Phone, renderReservationSMS(data)); err != nil {
			log.Printf("SMS for reservation %d failed: %v", res.ID, err)
		}
	}
	return nil
}

// renderReservationEmail always returns the plain text body; html is empty
// when the template fails.
func renderReservationEmail(data entities.ReservationEmailData) (subject, plain, html string, err error) {
	subject = fmt.Sprintf("Your reservation #%d is %s", data.ReservationID, data.Status)
	plain = fmt.Sprintf(
		"Hello %s,\n\nYour reservation is %s.\n\n"+
			"Reservation: #%d\n"+
			"Vehicle: %s (Plate: %s)\n"+
			"Pick-up: %s\n"+
			"Return: %s\n\n"+
			"Thank you for renting with us.\n\n"+
			"%d Car Rental. All rights reserved.",
		data.UserName, data.Status, data.ReservationID, data.VehicleName, data.VehiclePlate,
		data.StartDate, data.EndDate, data.CurrentYear,
	)

	var buf bytes.Buffer
	if err = emailTemplate.Execute(&buf, data); err != nil {
		return subject, plain, "", err
	}
	return subject, plain, buf.String(), nil
}

func renderReservationSMS(data entities.ReservationEmailData) string {
	return fmt.Sprintf("Car Rental: reservation #%d is %s.\nVehicle: %s, %s to %s.",
		data.ReservationID, data.Status, data.VehicleName, data.StartDate, data.EndDate)
}
