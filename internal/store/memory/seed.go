package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
)

type seedFile struct {
	Salons []struct {
		ID           uuid.UUID           `json:"id"`
		OwnerID      string              `json:"owner_id"`
		Name         string              `json:"name"`
		Email        string              `json:"email"`
		Services     []domain.Service    `json:"services"`
		WorkingHours domain.WorkingHours `json:"working_hours"`
		Staff        []struct {
			ID    uuid.UUID `json:"id"`
			Name  string    `json:"name"`
			Email string    `json:"email"`
		} `json:"staff"`
	} `json:"salons"`
}

// LoadSeedFile reads salons and their staff from a JSON file.
func (s *Store) LoadSeedFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.LoadSeed(f)
}

func (s *Store) LoadSeed(r io.Reader) error {
	var seed seedFile
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}
	for _, in := range seed.Salons {
		if _, _, err := in.WorkingHours.Bounds(); err != nil {
			return fmt.Errorf("salon %q: %w", in.Name, err)
		}
		salon := s.PutSalon(domain.Salon{
			ID:           in.ID,
			OwnerID:      in.OwnerID,
			Name:         in.Name,
			Email:        in.Email,
			Services:     in.Services,
			WorkingHours: in.WorkingHours,
		})
		for _, m := range in.Staff {
			s.PutStaffMember(domain.StaffMember{ID: m.ID, SalonID: salon.ID, Name: m.Name, Email: m.Email})
		}
	}
	return nil
}
