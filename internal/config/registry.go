package config

import (
	"github.com/google/uuid"

	"github.com/Vrilya/wow-addon-updater/internal/gameversion"
)

// AddInstallation creates a new installation with a fresh id and the next
// palette color. The first installation added becomes active. Persists.
func (s *Store) AddInstallation(name, path string, gameVersionID int) (*Installation, error) {
	s.mu.Lock()
	inst := &Installation{
		ID:            uuid.NewString(),
		Name:          name,
		AddonPath:     path,
		GameVersionID: gameVersionID,
		ColorHex:      gameversion.NextColor(len(s.doc.Installations)),
		Addons:        make(map[string]*AddonState),
		FolderMapping: make(map[string][]string),
	}
	s.doc.Installations[inst.ID] = inst
	if len(s.doc.Installations) == 1 {
		s.doc.ActiveInstallID = inst.ID
	}
	s.mu.Unlock()

	if err := s.Save(); err != nil {
		return inst, err
	}
	return inst, nil
}

// RemoveInstallation drops an installation by id. If it was the active one,
// an arbitrary remaining installation is promoted (or the pointer cleared).
// Returns false for an unknown id. Does not touch addon files on disk.
func (s *Store) RemoveInstallation(id string) bool {
	s.mu.Lock()
	if _, ok := s.doc.Installations[id]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.doc.Installations, id)

	if s.doc.ActiveInstallID == id {
		s.doc.ActiveInstallID = ""
		for remaining := range s.doc.Installations {
			s.doc.ActiveInstallID = remaining
			break
		}
	}
	s.mu.Unlock()

	if err := s.Save(); err != nil {
		s.log.Warn("Failed to save config after installation removal", "error", err)
	}
	return true
}

// UpdateInstallation replaces an installation wholesale, keyed by its id.
// Returns false (no-op) for an unknown id. Persists.
func (s *Store) UpdateInstallation(inst *Installation) bool {
	s.mu.Lock()
	if _, ok := s.doc.Installations[inst.ID]; !ok {
		s.mu.Unlock()
		return false
	}
	inst.normalize()
	s.doc.Installations[inst.ID] = inst
	s.mu.Unlock()

	if err := s.Save(); err != nil {
		s.log.Warn("Failed to save config after installation update", "error", err)
	}
	return true
}

// SetActiveInstallation moves the active pointer. Unknown ids are a no-op.
func (s *Store) SetActiveInstallation(id string) {
	s.mu.Lock()
	_, ok := s.doc.Installations[id]
	if ok {
		s.doc.ActiveInstallID = id
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	if err := s.Save(); err != nil {
		s.log.Warn("Failed to save config after active change", "error", err)
	}
}

// Installations returns all installations in no particular order.
func (s *Store) Installations() []*Installation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Installation, 0, len(s.doc.Installations))
	for _, inst := range s.doc.Installations {
		out = append(out, inst)
	}
	return out
}

// Installation looks up a single installation by id.
func (s *Store) Installation(id string) (*Installation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.doc.Installations[id]
	return inst, ok
}

// ActiveInstallation returns the active installation, if any.
func (s *Store) ActiveInstallation() *Installation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.ActiveInstallation()
}
