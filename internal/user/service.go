package user

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sharedrive/sharedrive/internal/db"
	"github.com/sharedrive/sharedrive/internal/xerrors"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = fmt.Errorf("%w: user", xerrors.ErrNotFound)
	ErrDuplicateName = fmt.Errorf("%w: a user with this name already exists", xerrors.ErrInvalidArgument)
)

// Service manages the principals shares are granted to. Usernames are unique
// and are how share requests name their targets.
type Service struct {
	logger   *slog.Logger
	dbClient *db.Client
}

func NewService(logger *slog.Logger, dbClient *db.Client) *Service {
	return &Service{
		logger:   logger,
		dbClient: dbClient,
	}
}

func (service *Service) Create(name string) (db.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return db.User{}, fmt.Errorf("%w: a user name is required", xerrors.ErrInvalidArgument)
	}

	user := db.User{Name: name}
	if err := db.Create(service.dbClient, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return db.User{}, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		return db.User{}, fmt.Errorf("db.Create: %w", err)
	}

	service.logger.Info("created a user", "id", user.ID, "name", user.Name)
	return user, nil
}

func (service *Service) FindByID(id uint) (db.User, error) {
	user, err := service.dbClient.User().FindByID(id)
	if errors.Is(err, db.ErrRecordNotFound) {
		return db.User{}, fmt.Errorf("%w: %d", ErrUserNotFound, id)
	}
	if err != nil {
		return db.User{}, fmt.Errorf("User.FindByID: %w", err)
	}
	return user, nil
}

func (service *Service) FindByName(name string) (db.User, error) {
	user, err := service.dbClient.User().FindByName(name)
	if errors.Is(err, db.ErrRecordNotFound) {
		return db.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, name)
	}
	if err != nil {
		return db.User{}, fmt.Errorf("User.FindByName: %w", err)
	}
	return user, nil
}

func (service *Service) List() ([]db.User, error) {
	users, err := db.GetAll[db.User](service.dbClient)
	if err != nil {
		return nil, fmt.Errorf("db.GetAll: %w", err)
	}
	return users, nil
}
