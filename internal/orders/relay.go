package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bombom/internal/domain"
	"bombom/internal/providers/image"
	"bombom/internal/storage"
)

// SelectionRefs carries the catalog foreign keys of a submitted selection,
// named exactly as the storefront sends them.
type SelectionRefs struct {
	ChocolateID string `json:"chocolate_id"`
	BaseID      string `json:"base_id,omitempty"`
	GanacheID   string `json:"ganache_id"`
	JamID       string `json:"geleia_id,omitempty"`
	ColorID     string `json:"cor_id"`
}

// SubmitRequest is the relay input: the selection references, the generated
// prompt for the audit trail, the image reference, and exactly one actor
// identity (authenticated user or guest contact).
type SubmitRequest struct {
	Selection  SelectionRefs `json:"selection"`
	Prompt     string        `json:"prompt,omitempty"`
	ImageRef   string        `json:"url_imagem,omitempty"`
	UserID     string        `json:"user_id,omitempty"`
	GuestName  string        `json:"guest_nome,omitempty"`
	GuestPhone string        `json:"guest_telefone,omitempty"`
}

// ValidationError names the submission fields that failed.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Fields, ", "))
	}
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrValidation
}

// Relay persists a completed selection as an order. It performs exactly one
// storage write and never retries: a transient failure surfaces to the caller
// as-is so the UI can offer a retry action.
type Relay struct {
	repo  domain.OrderRepository
	store *storage.FileStore
}

// NewRelay wires the relay with its order repository and an optional file
// store for offloading data URL renders.
func NewRelay(repo domain.OrderRepository, store *storage.FileStore) *Relay {
	return &Relay{repo: repo, store: store}
}

// Submit validates the request and creates the order with initial status
// "submitted".
func (rl *Relay) Submit(ctx context.Context, req SubmitRequest) (*domain.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	imageRef := strings.TrimSpace(req.ImageRef)
	if rl.store != nil && strings.HasPrefix(imageRef, "data:") {
		ref, err := rl.offloadDataURL(ctx, imageRef)
		if err != nil {
			return nil, fmt.Errorf("persist submitted image: %w", err)
		}
		imageRef = ref
	}

	order := &domain.Order{
		UserID:      strings.TrimSpace(req.UserID),
		GuestName:   strings.TrimSpace(req.GuestName),
		GuestPhone:  strings.TrimSpace(req.GuestPhone),
		ChocolateID: req.Selection.ChocolateID,
		BaseID:      req.Selection.BaseID,
		GanacheID:   req.Selection.GanacheID,
		JamID:       req.Selection.JamID,
		ColorID:     req.Selection.ColorID,
		Prompt:      req.Prompt,
		ImageRef:    imageRef,
		Status:      domain.OrderStatusSubmitted,
	}
	// Guest contact is only stored for guest orders.
	if order.UserID != "" {
		order.GuestName = ""
		order.GuestPhone = ""
	}

	return rl.repo.Create(ctx, order)
}

func (rl *Relay) offloadDataURL(ctx context.Context, dataURL string) (string, error) {
	mime, data, err := image.DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	ext := "png"
	switch mime {
	case "image/jpeg":
		ext = "jpg"
	case "image/webp":
		ext = "webp"
	}
	return rl.store.Write(ctx, fmt.Sprintf("orders/%s.%s", uuid.NewString(), ext), data)
}

func validate(req SubmitRequest) error {
	hasUser := strings.TrimSpace(req.UserID) != ""
	hasGuest := strings.TrimSpace(req.GuestName) != "" || strings.TrimSpace(req.GuestPhone) != ""

	if hasUser && hasGuest {
		return &ValidationError{Reason: "order must belong to either a user or a guest, not both"}
	}
	if !hasUser {
		var missing []string
		if strings.TrimSpace(req.GuestName) == "" {
			missing = append(missing, "guest_nome")
		}
		if strings.TrimSpace(req.GuestPhone) == "" {
			missing = append(missing, "guest_telefone")
		}
		if len(missing) > 0 {
			return &ValidationError{Reason: "missing guest contact", Fields: missing}
		}
	}

	var missing []string
	if strings.TrimSpace(req.Selection.ChocolateID) == "" {
		missing = append(missing, "chocolate_id")
	}
	if strings.TrimSpace(req.Selection.GanacheID) == "" {
		missing = append(missing, "ganache_id")
	}
	if strings.TrimSpace(req.Selection.ColorID) == "" {
		missing = append(missing, "cor_id")
	}
	if len(missing) > 0 {
		return &ValidationError{Reason: "incomplete selection", Fields: missing}
	}
	return nil
}
