package service

import (
	"context"
	"errors"

	"github.com/Romankivs/Lab1Istp/database/model"
	"github.com/Romankivs/Lab1Istp/logger"
	"github.com/Romankivs/Lab1Istp/util/common"
	"github.com/Romankivs/Lab1Istp/util/crypto"
	"github.com/Romankivs/Lab1Istp/web/entity"

	"gorm.io/gorm"
)

// ErrRegistrationClosed is returned by Bootstrap once a staff member exists.
var ErrRegistrationClosed = errors.New("registration is closed")

// StaffService manages panel operators and checks their credentials.
type StaffService struct {
	*Crud[model.Staff, int]
	db *gorm.DB
}

func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{Crud: NewCrud[model.Staff, int](db, "staff_id"), db: db}
}

// IsEmpty reports whether no staff member exists yet.
func (s *StaffService) IsEmpty(ctx context.Context) (bool, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Bootstrap inserts staff only while the staff table is empty. The check
// and the insert share one transaction; on postgres the table is locked
// so concurrent registrations are serialized.
func (s *StaffService) Bootstrap(ctx context.Context, staff *model.Staff) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("LOCK TABLE staff IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
				return err
			}
		}
		var n int64
		if err := tx.Model(&model.Staff{}).Count(&n).Error; err != nil {
			return translate(err)
		}
		if n > 0 {
			return ErrRegistrationClosed
		}
		return translate(tx.Create(staff).Error)
	})
}

func (s *StaffService) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	staff := &model.Staff{}
	err := s.db.WithContext(ctx).
		Where("email = ?", entity.NormalizeEmail(email)).
		Take(staff).Error
	if err != nil {
		return nil, translate(err)
	}
	return staff, nil
}

// CheckStaff returns the staff member owning email if password matches.
// An unknown email is common.ErrEmailNotFound and a mismatch is
// common.ErrWrongPassword.
func (s *StaffService) CheckStaff(ctx context.Context, email string, password string) (*model.Staff, error) {
	staff, err := s.GetByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrEmailNotFound
	} else if err != nil {
		logger.Warning("check staff err:", err)
		return nil, err
	}
	if !crypto.CheckPasswordHash(staff.PasswordHash, password) {
		return nil, common.ErrWrongPassword
	}
	return staff, nil
}

// Authenticate reloads the staff member a session names and accepts it
// only while the stored credentials still match stamp.
func (s *StaffService) Authenticate(ctx context.Context, id int, stamp string) (*model.Staff, bool) {
	if id <= 0 || stamp == "" {
		return nil, false
	}
	staff, err := s.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			logger.Warning("authenticate staff err:", err)
		}
		return nil, false
	}
	if crypto.Stamp(staff.PasswordHash) != stamp {
		return nil, false
	}
	return staff, true
}

// SetPassword replaces the password of the staff member owning email.
func (s *StaffService) SetPassword(ctx context.Context, email string, password string) error {
	form := &entity.StaffForm{Email: email, Password: password, Name: "-"}
	row, err := form.ToModel(nil)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Model(model.Staff{}).
		Where("email = ?", row.Email).
		Update("password_hash", row.PasswordHash)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrEmailNotFound
	}
	return nil
}
