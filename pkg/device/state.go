package device

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/deviceauth/pkg/base32"
	"github.com/dmitrymomot/deviceauth/pkg/secrets"
)

// Info describes the device to the backend at registration.
type Info struct {
	ID   string `json:"deviceId"`
	Name string `json:"deviceName"`
	OS   string `json:"deviceOs"`
}

// State is the device registration record.
type State struct {
	mu                sync.RWMutex
	info              Info
	secret            string
	encryptedDeviceID string
	registered        bool
}

// New creates an unregistered state. A missing device id is generated.
func New(info Info) *State {
	if info.ID == "" {
		info.ID = uuid.NewString()
	}
	return &State{info: info}
}

// DeviceID returns the stable device identifier.
func (s *State) DeviceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info.ID
}

// EncryptedDeviceID returns the identifier the backend assigned at
// registration, falling back to DeviceID before that.
func (s *State) EncryptedDeviceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.encryptedDeviceID != "" {
		return s.encryptedDeviceID
	}
	return s.info.ID
}

// Secret returns the base32 TOTP secret, or "" before registration.
func (s *State) Secret() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.secret
}

// IsRegistered reports whether Register has succeeded since the last Reset.
func (s *State) IsRegistered() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registered
}

// Register records the secret issued by the backend. The secret must decode
// as standard base32 so that OTP generation cannot fail later.
func (s *State) Register(secret, encryptedDeviceID string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ErrInvalidSecret
	}
	if _, err := base32.StdDecode(secret); err != nil {
		return errors.Join(ErrInvalidSecret, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = secret
	s.encryptedDeviceID = encryptedDeviceID
	s.registered = true
	return nil
}

// UpdateSecret replaces the secret of a registered device.
func (s *State) UpdateSecret(secret string) error {
	if !s.IsRegistered() {
		return ErrNotRegistered
	}
	return s.Register(secret, s.EncryptedDeviceID())
}

// Reset forgets the registration. Device information is kept.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = ""
	s.encryptedDeviceID = ""
	s.registered = false
}

// Info returns the device description.
func (s *State) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// Information returns the registration parameters: deviceId, deviceName
// and deviceOs. The map is a fresh copy owned by the caller.
func (s *State) Information() map[string]any {
	info := s.Info()
	return map[string]any{
		"deviceId":   info.ID,
		"deviceName": info.Name,
		"deviceOs":   info.OS,
	}
}

type snapshot struct {
	Info              Info   `json:"info"`
	Secret            string `json:"secret,omitempty"`
	EncryptedDeviceID string `json:"encryptedDeviceId,omitempty"`
	Registered        bool   `json:"registered"`
}

// Seal exports the state encrypted under appKey, bound to the device id.
func (s *State) Seal(appKey []byte) ([]byte, error) {
	s.mu.RLock()
	snap := snapshot{
		Info:              s.info,
		Secret:            s.secret,
		EncryptedDeviceID: s.encryptedDeviceID,
		Registered:        s.registered,
	}
	s.mu.RUnlock()

	plaintext, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	defer clear(plaintext)
	return secrets.Seal(appKey, snap.Info.ID, plaintext)
}

// Restore replaces the state with a snapshot produced by Seal on the same
// device.
func (s *State) Restore(appKey, sealed []byte) error {
	id := s.DeviceID()
	plaintext, err := secrets.Open(appKey, id, sealed)
	if err != nil {
		return errors.Join(ErrInvalidState, err)
	}
	defer clear(plaintext)

	var snap snapshot
	if err := json.Unmarshal(plaintext, &snap); err != nil {
		return errors.Join(ErrInvalidState, err)
	}
	if snap.Info.ID != id {
		return ErrDeviceMismatch
	}
	if snap.Registered {
		if _, err := base32.StdDecode(snap.Secret); err != nil {
			return errors.Join(ErrInvalidState, ErrInvalidSecret, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = snap.Info
	s.secret = snap.Secret
	s.encryptedDeviceID = snap.EncryptedDeviceID
	s.registered = snap.Registered
	return nil
}
