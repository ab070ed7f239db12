package email

import (
	"context"
	"fmt"
	"strings"
	"time"
)

func (s *Service) SendBookingConfirmation(ctx context.Context, to, className, trainerName, slotName, slotTime string, days []string, paidAt time.Time) error {
	subject := "Booking Confirmed - " + className
	body := fmt.Sprintf(`Hi,

Your booking is confirmed!

Class: %s
Trainer: %s
Slot: %s (%s)
Days: %s
Paid: %s

See you at the gym!

- FitFolio Team`, className, trainerName, slotName, slotTime, strings.Join(days, ", "), paidAt.Format("Jan 2, 2006 at 3:04 PM"))

	return s.Send(ctx, "booking_confirmation", to, "", subject, body)
}

func (s *Service) SendTrainerApproved(ctx context.Context, to, name string) error {
	subject := "Your trainer application was approved"
	body := fmt.Sprintf(`Hi %s,

Congratulations, you are now a FitFolio trainer. You can start adding slots from your dashboard.

- FitFolio Team`, name)

	return s.Send(ctx, "trainer_approved", to, name, subject, body)
}

func (s *Service) SendTrainerRejected(ctx context.Context, to, name, feedback string) error {
	if feedback == "" {
		feedback = "No feedback was provided."
	}
	subject := "Your trainer application"
	body := fmt.Sprintf(`Hi %s,

Unfortunately your trainer application was not approved this time.

Feedback: %s

- FitFolio Team`, name, feedback)

	return s.Send(ctx, "trainer_rejected", to, name, subject, body)
}

func (s *Service) SendNewsletterWelcome(ctx context.Context, to, name string) error {
	subject := "Welcome to the FitFolio newsletter"
	body := fmt.Sprintf(`Hi %s,

Thanks for subscribing. You will hear from us about new classes and trainers.

- FitFolio Team`, name)

	return s.Send(ctx, "newsletter_welcome", to, name, subject, body)
}
