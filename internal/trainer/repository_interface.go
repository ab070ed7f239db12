package trainer

import "context"

type Repository interface {
	CreateApplication(ctx context.Context, app *Application) (*Application, error)
	PendingApplications(ctx context.Context) ([]Application, error)
	ActivityLog(ctx context.Context) ([]Application, error)
	Approve(ctx context.Context, applicationID int) (app *Application, trainerCreated bool, err error)
	Reject(ctx context.Context, applicationID int, feedback string) (*Application, error)
	Demote(ctx context.Context, userID int) (email string, err error)

	Approved(ctx context.Context, limit int) ([]Trainer, error)
	ByClass(ctx context.Context, className string, limit int) ([]Summary, error)
	FindByID(ctx context.Context, id int) (*Trainer, error)
	FindByEmail(ctx context.Context, email string) (*Trainer, error)
}
