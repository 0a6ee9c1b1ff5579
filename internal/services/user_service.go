package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"usermgmt/internal/apperror"
	"usermgmt/internal/models"
	"usermgmt/internal/repositories"
	"usermgmt/pkg/rabbitmq"
)

// EventPublisher delivers user lifecycle events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	PublishUserEvent(event rabbitmq.UserEvent) error
}

// UserService handles business logic related to users.
type UserService struct {
	repo      repositories.UserRepository
	publisher EventPublisher
	log       logrus.FieldLogger
}

// NewUserService creates a new UserService. publisher may be nil, in which
// case no events are emitted.
func NewUserService(repo repositories.UserRepository, publisher EventPublisher, log logrus.FieldLogger) *UserService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &UserService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Create persists a new user and returns it with its generated id and createdAt.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Normalize()
	user, err := in.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, mapStoreError(err, "", user.Email)
	}
	s.publish(rabbitmq.EventUserCreated, user.ID, user.Email)
	return user, nil
}

// FindAll returns every user. There is no pagination or ordering.
func (s *UserService) FindAll(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, mapStoreError(err, "", "")
	}
	return users, nil
}

// FindByID returns the user or a NotFound error.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, id, "")
	}
	return user, nil
}

// Update applies only the supplied fields. An empty input changes nothing.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	in.Normalize()
	changes, err := in.changes()
	if err != nil {
		return nil, err
	}

	var email string
	if in.Email != nil {
		email = *in.Email
	}
	if len(changes) > 0 {
		if err := s.repo.UpdateByID(ctx, id, changes); err != nil {
			return nil, mapStoreError(err, id, email)
		}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, id, email)
	}
	if len(changes) > 0 {
		s.publish(rabbitmq.EventUserUpdated, user.ID, user.Email)
	}
	return user, nil
}

// Delete removes the user permanently.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return mapStoreError(err, id, "")
	}
	s.publish(rabbitmq.EventUserDeleted, id, "")
	return nil
}

// publish never fails the request: the write already happened.
func (s *UserService) publish(eventType, userID, email string) {
	if s.publisher == nil {
		return
	}
	event := rabbitmq.UserEvent{
		Type:       eventType,
		UserID:     userID,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishUserEvent(event); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"type":    eventType,
			"user_id": userID,
		}).Warn("failed to publish user event")
	}
}

// mapStoreError translates gorm sentinel errors into the service taxonomy.
func mapStoreError(err error, id, email string) error {
	var appErr *apperror.Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.NewConflict("email", email, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NewNotFound("User", id)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.NewRelatedRecords(err)
	default:
		return apperror.NewStore(err)
	}
}
