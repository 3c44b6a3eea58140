// Package otptest provides in-memory OTP collaborators for tests.
package otptest

import (
	"context"
	"sync"

	"github.com/Abraxas-365/storefront/pkg/iam/otp"
	"github.com/Abraxas-365/storefront/pkg/kernel"
)

// MemoryRepository implements otp.Repository with one row per email.
type MemoryRepository struct {
	mu      sync.Mutex
	next    kernel.OTPID
	byID    map[kernel.OTPID]otp.OTP
	byEmail map[string]kernel.OTPID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[kernel.OTPID]otp.OTP),
		byEmail: make(map[string]kernel.OTPID),
	}
}

func (r *MemoryRepository) Replace(_ context.Context, o *otp.OTP, guard func(*otp.OTP) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byEmail[o.Email]
	if guard != nil {
		var current *otp.OTP
		if ok {
			row := r.byID[old]
			current = &row
		}
		if err := guard(current); err != nil {
			return err
		}
	}
	if ok {
		delete(r.byID, old)
	}
	r.next++
	o.ID = r.next
	r.byID[o.ID] = *o
	r.byEmail[o.Email] = o.ID
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id kernel.OTPID) (*otp.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.byID[id]
	if !ok {
		return nil, otp.ErrNotFound()
	}
	return &o, nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*otp.OTP, error) {
	r.mu.Lock()
	id, ok := r.byEmail[email]
	r.mu.Unlock()

	if !ok {
		return nil, otp.ErrNotFound()
	}
	return r.FindByID(ctx, id)
}

func (r *MemoryRepository) MarkVerified(_ context.Context, id kernel.OTPID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.byID[id]
	if !ok || o.Verified {
		return false, nil
	}
	o.Verified = true
	r.byID[id] = o
	return true, nil
}

// Notifier records the last code sent to each email. A non-nil Err is
// returned from every send after recording.
type Notifier struct {
	mu    sync.Mutex
	codes map[string]string
	Err   error
}

func (n *Notifier) SendOTP(_ context.Context, email, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.codes == nil {
		n.codes = make(map[string]string)
	}
	n.codes[email] = code
	return n.Err
}

// Code returns the last code sent to email.
func (n *Notifier) Code(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[email]
}
