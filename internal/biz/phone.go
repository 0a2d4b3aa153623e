package biz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CourtGate/internal/model"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// PhoneVerifiedConfidence is the fixed confidence assigned to data a clerk
// confirmed over the phone.
const PhoneVerifiedConfidence = 0.9

// ContactDirectory resolves a court identifier to its contact information.
// Implemented by the data layer.
type ContactDirectory interface {
	Lookup(courtID string) (model.CourtContact, bool)
}

// pendingVerification is one registered phone verification awaiting a
// staff call.
type pendingVerification struct {
	VerificationID string
	CourtID        string
	Jurisdiction   string
	Contact        model.CourtContact
	RequestedAt    time.Time
}

// PhoneVerificationCollector registers requests for staff to verify case
// data with the court clerk by phone. The verification call IS the human
// action, so the registration result carries VerificationNeeded=false and
// confidence zero; CompleteVerification records the verified data later.
type PhoneVerificationCollector struct {
	mu       sync.Mutex
	pending  map[string]*pendingVerification
	contacts ContactDirectory
	logger   *log.Helper
}

// NewPhoneVerificationCollector creates the phone verification collector.
func NewPhoneVerificationCollector(contacts ContactDirectory, logger log.Logger) *PhoneVerificationCollector {
	return &PhoneVerificationCollector{
		pending:  make(map[string]*pendingVerification),
		contacts: contacts,
		logger:   log.NewHelper(logger),
	}
}

// Method implements Collector.
func (p *PhoneVerificationCollector) Method() model.FallbackMethod {
	return model.FallbackPhoneVerification
}

// Collect implements Collector: it registers a verification request with
// the court's contact info and returns immediately.
func (p *PhoneVerificationCollector) Collect(_ context.Context, req *model.CourtDataRequest) *model.FallbackResult {
	result := &model.FallbackResult{
		Method:     model.FallbackPhoneVerification,
		SourceType: "phone_verification",
		Timestamp:  time.Now(),
	}

	courtID := req.Criterion("court_id")
	if courtID == "" {
		courtID = req.Jurisdiction
	}

	contact, ok := p.contacts.Lookup(courtID)
	if !ok {
		result.Errors = append(result.Errors,
			fmt.Sprintf("no contact information for court %q", courtID))
		return result
	}

	v := &pendingVerification{
		VerificationID: uuid.NewString(),
		CourtID:        courtID,
		Jurisdiction:   req.Jurisdiction,
		Contact:        contact,
		RequestedAt:    time.Now(),
	}

	p.mu.Lock()
	p.pending[v.VerificationID] = v
	p.mu.Unlock()

	p.logger.Infow("phone verification request registered",
		"verification_id", v.VerificationID,
		"court_id", courtID,
		"phone", contact.Phone)

	result.Data = map[string]any{
		"verification_id": v.VerificationID,
		"court_name":      contact.CourtName,
		"contact_phone":   contact.Phone,
		"clerk_email":     contact.ClerkEmail,
	}
	return result
}

// CompleteVerification records the data staff verified over the phone and
// returns the completed result at the fixed verified confidence. The
// pending request is consumed.
func (p *PhoneVerificationCollector) CompleteVerification(verificationID string, data map[string]any) (*model.FallbackResult, error) {
	p.mu.Lock()
	v, ok := p.pending[verificationID]
	if ok {
		delete(p.pending, verificationID)
	}
	p.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, verificationID)
	}

	merged := make(map[string]any, len(data)+2)
	for k, v := range data {
		merged[k] = v
	}
	merged["verification_id"] = verificationID
	if v.Jurisdiction != "" {
		merged["jurisdiction"] = v.Jurisdiction
	}

	p.logger.Infow("phone verification completed",
		"verification_id", verificationID,
		"court_id", v.CourtID)

	return &model.FallbackResult{
		Method:     model.FallbackPhoneVerification,
		SourceType: "phone_verification",
		Data:       merged,
		Confidence: PhoneVerifiedConfidence,
		Timestamp:  time.Now(),
	}, nil
}
