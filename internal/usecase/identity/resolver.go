package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"driver-license-portal/internal/domain/citizen"
)

// Resolver finds the citizen behind a national ID and/or email, degrading
// from the strictest match to a national ID prefix match.
type Resolver struct {
	citizens citizen.Repository
	log      logrus.FieldLogger
}

func NewResolver(citizens citizen.Repository, log logrus.FieldLogger) *Resolver {
	return &Resolver{citizens: citizens, log: log}
}

type lookup struct {
	name string
	key  string
	fn   func(ctx context.Context) (*citizen.Citizen, error)
}

// Resolve tries email+national ID, email, national ID, then the first 13
// characters of an over-long national ID. citizen.ErrNotFound when all miss.
func (r *Resolver) Resolve(ctx context.Context, nationalID, email string) (*citizen.Citizen, error) {
	nationalID = strings.TrimSpace(nationalID)
	email = strings.TrimSpace(email)
	if nationalID == "" && email == "" {
		return nil, citizen.ErrNotFound
	}

	var steps []lookup
	if email != "" && nationalID != "" {
		steps = append(steps, lookup{"email+national_id", email + "|" + nationalID, func(ctx context.Context) (*citizen.Citizen, error) {
			return r.citizens.GetByEmailAndNationalID(ctx, email, nationalID)
		}})
	}
	if email != "" {
		steps = append(steps, lookup{"email", email, func(ctx context.Context) (*citizen.Citizen, error) {
			return r.citizens.GetByEmail(ctx, email)
		}})
	}
	if nationalID != "" {
		steps = append(steps, lookup{"national_id", nationalID, func(ctx context.Context) (*citizen.Citizen, error) {
			return r.citizens.GetByNationalID(ctx, nationalID)
		}})
		if len(nationalID) > citizen.NationalIDPrefixLen {
			prefix := nationalID[:citizen.NationalIDPrefixLen]
			steps = append(steps, lookup{"national_id_prefix", prefix, func(ctx context.Context) (*citizen.Citizen, error) {
				return r.citizens.GetByNationalID(ctx, prefix)
			}})
		}
	}

	for _, s := range steps {
		c, err := s.fn(ctx)
		switch {
		case err == nil:
			r.log.WithFields(logrus.Fields{"lookup": s.name, "key": s.key, "citizen_id": c.ID}).Debug("citizen resolved")
			return c, nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			r.log.WithFields(logrus.Fields{"lookup": s.name, "key": s.key}).Debug("citizen lookup missed")
		default:
			return nil, err
		}
	}
	r.log.WithFields(logrus.Fields{"national_id": nationalID, "email": email, "attempts": len(steps)}).Info("citizen not found")
	return nil, citizen.ErrNotFound
}
