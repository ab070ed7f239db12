package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"fitfolio/internal/logger"
	"fitfolio/internal/metrics"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
	popTimeout     = 2 * time.Second
)

type EmailJob struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis        redis.Cmdable
	closer       func() error
	from         string
	fromName     string
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPass     string
	retryDelay   time.Duration
	errorBackoff time.Duration
	send         func(job EmailJob) error
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	s := NewWithClient(client, fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass)
	s.closer = client.Close
	return s
}

// NewWithClient builds a service on an existing redis client; the caller owns its lifecycle.
func NewWithClient(client redis.Cmdable, fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass string) *Service {
	s := &Service{
		redis:        client,
		closer:       func() error { return nil },
		from:         fromEmail,
		fromName:     fromName,
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUser:     smtpUser,
		smtpPass:     smtpPass,
		retryDelay:   2 * time.Second,
		errorBackoff: 5 * time.Second,
	}
	s.send = s.sendNow
	return s
}

func (s *Service) Send(ctx context.Context, emailType, to, name, subject, body string) error {
	job := EmailJob{
		ID:      uuid.NewString(),
		Type:    emailType,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	if err := s.push(ctx, queueKey, job); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", to, err)
		return err
	}

	logger.Info("Email queued", "id", job.ID, "type", emailType, "to", to)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Email service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, popTimeout, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Error("email queue unavailable", "error", err, "backoff", s.errorBackoff)
		pause(ctx, s.errorBackoff)
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	err = s.deliver(ctx, &job)
	switch {
	case err == nil:
		metrics.RecordEmail(job.Type, "success")
		metrics.EmailQueueLength.Set(float64(s.QueueLength(ctx)))
		logger.Info("email sent", "id", job.ID, "to", job.To, "attempts", job.Tries)
	case ctx.Err() != nil:
		// Shutting down mid-retry: put the job back for the next worker.
		if err := s.push(context.Background(), queueKey, job); err != nil {
			logger.Error("email dropped on shutdown", "id", job.ID, "to", job.To, "error", err)
		}
	default:
		logger.Error("email failed", "id", job.ID, "to", job.To, "attempts", job.Tries, "error", err)
		if err := s.saveFailed(job, err); err != nil {
			logger.Error("failed to record undeliverable email", "id", job.ID, "to", job.To, "error", err)
		}
	}
}

// deliver sends the job, retrying until it has been tried maxTries times in
// total. job.Tries counts every attempt, including ones from earlier runs.
func (s *Service) deliver(ctx context.Context, job *EmailJob) error {
	attempts := maxTries - job.Tries
	if attempts < 1 {
		attempts = 1
	}

	return retry.Do(
		func() error {
			job.Tries++
			if err := s.send(*job); err != nil {
				metrics.RecordEmail(job.Type, "failed")
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("email attempt failed", "id", job.ID, "to", job.To, "attempt", job.Tries, "error", err)
		}),
	)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

type failedJob struct {
	Job   EmailJob  `json:"job"`
	Error string    `json:"error"`
	Time  time.Time `json:"time"`
}

func (s *Service) saveFailed(job EmailJob, cause error) error {
	return s.push(context.Background(), failedQueueKey, failedJob{Job: job, Error: cause.Error(), Time: time.Now()})
}

func (s *Service) push(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.redis.LPush(ctx, key, string(data)).Err()
}

func pause(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.closer()
}
