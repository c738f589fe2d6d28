// Package seed provisions accounts from a YAML file. Admins can only be
// created this way.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/grievance-service/internal/service"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// File is the seed document.
type File struct {
	Admins      []Admin      `yaml:"admins"`
	Officials   []Official   `yaml:"officials"`
	Petitioners []Petitioner `yaml:"petitioners"`
}

// Admin is one administrator entry.
type Admin struct {
	AdminID   string `yaml:"admin_id"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
}

// Official is one official entry.
type Official struct {
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	Email       string `yaml:"email"`
	Phone       string `yaml:"phone"`
	Department  string `yaml:"department"`
	EmployeeID  string `yaml:"employee_id"`
	Designation string `yaml:"designation"`
	City        string `yaml:"city"`
	District    string `yaml:"district"`
	Password    string `yaml:"password"`
}

// Petitioner is one petitioner entry.
type Petitioner struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	City      string `yaml:"city"`
	State     string `yaml:"state"`
	Pincode   string `yaml:"pincode"`
	Password  string `yaml:"password"`
}

// Result counts what Apply did.
type Result struct {
	Created int
	Skipped int
}

// LoadFile reads and parses a seed file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Apply creates every account in f. Accounts that already exist are
// skipped, so seeding twice is harmless.
func Apply(ctx context.Context, auth *service.AuthService, f *File, logger *zap.Logger) (Result, error) {
	var res Result
	record := func(kind, email string, err error) error {
		switch {
		case err == nil:
			res.Created++
			logger.Info("seeded account", zap.String("kind", kind), zap.String("email", email))
			return nil
		case errors.Is(err, apperrors.ErrConflict):
			res.Skipped++
			logger.Debug("seed account exists", zap.String("kind", kind), zap.String("email", email))
			return nil
		}
		return fmt.Errorf("seed %s %s: %w", kind, email, err)
	}

	for _, a := range f.Admins {
		_, err := auth.CreateAdmin(ctx, service.CreateAdminInput{
			AdminID:   a.AdminID,
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Email:     a.Email,
			Password:  a.Password,
		})
		if err := record("admin", a.Email, err); err != nil {
			return res, err
		}
	}
	for _, o := range f.Officials {
		_, err := auth.RegisterOfficial(ctx, service.RegisterOfficialInput{
			FirstName:       o.FirstName,
			LastName:        o.LastName,
			Email:           o.Email,
			Phone:           o.Phone,
			Department:      o.Department,
			EmployeeID:      o.EmployeeID,
			Designation:     o.Designation,
			City:            o.City,
			District:        o.District,
			Password:        o.Password,
			ConfirmPassword: o.Password,
		})
		if err := record("official", o.Email, err); err != nil {
			return res, err
		}
	}
	for _, p := range f.Petitioners {
		_, err := auth.RegisterPetitioner(ctx, service.RegisterPetitionerInput{
			FirstName:       p.FirstName,
			LastName:        p.LastName,
			Email:           p.Email,
			Phone:           p.Phone,
			City:            p.City,
			State:           p.State,
			Pincode:         p.Pincode,
			Password:        p.Password,
			ConfirmPassword: p.Password,
		})
		if err := record("petitioner", p.Email, err); err != nil {
			return res, err
		}
	}
	return res, nil
}
