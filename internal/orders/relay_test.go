package orders

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bombom/internal/domain"
	"bombom/internal/providers/image"
	"bombom/internal/storage"
)

type stubOrderRepo struct {
	created []*domain.Order
	err     error
}

func (s *stubOrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	s.created = append(s.created, order)
	if s.err != nil {
		return nil, s.err
	}
	out := *order
	out.ID = "order-1"
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	return &out, nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}

func (s *stubOrderRepo) List(ctx context.Context, status domain.OrderStatus, limit int) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}

func validRequest() SubmitRequest {
	return SubmitRequest{
		Selection: SelectionRefs{
			ChocolateID: "c1",
			BaseID:      "b1",
			GanacheID:   "g1",
			ColorID:     "k1",
		},
		Prompt:    "Foto de produto hiper-realista",
		GuestName: "Maria",
		GuestPhone: "+55 11 99999-0000",
	}
}

func TestSubmitRejectsBothIdentities(t *testing.T) {
	repo := &stubOrderRepo{}
	rl := NewRelay(repo, nil)

	req := validRequest()
	req.UserID = "u1"
	_, err := rl.Submit(context.Background(), req)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("no write may happen on validation failure")
	}
}

func TestSubmitRejectsMissingIdentity(t *testing.T) {
	rl := NewRelay(&stubOrderRepo{}, nil)

	req := validRequest()
	req.GuestName = ""
	req.GuestPhone = ""
	_, err := rl.Submit(context.Background(), req)

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(vErr.Fields) != 2 {
		t.Fatalf("fields = %v, want guest contact pair", vErr.Fields)
	}
}

func TestSubmitRejectsIncompleteSelection(t *testing.T) {
	rl := NewRelay(&stubOrderRepo{}, nil)

	req := validRequest()
	req.Selection.GanacheID = ""
	req.Selection.ColorID = ""
	_, err := rl.Submit(context.Background(), req)

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	want := []string{"ganache_id", "cor_id"}
	if len(vErr.Fields) != 2 || vErr.Fields[0] != want[0] || vErr.Fields[1] != want[1] {
		t.Fatalf("fields = %v, want %v", vErr.Fields, want)
	}
}

func TestSubmitGuestOrder(t *testing.T) {
	repo := &stubOrderRepo{}
	rl := NewRelay(repo, nil)

	got, err := rl.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID == "" || got.Status != domain.OrderStatusSubmitted {
		t.Fatalf("order = %+v", got)
	}
	if got.GuestName != "Maria" || got.UserID != "" {
		t.Fatalf("guest identity lost: %+v", got)
	}
}

func TestSubmitUserOrderDropsGuestContact(t *testing.T) {
	repo := &stubOrderRepo{}
	rl := NewRelay(repo, nil)

	req := validRequest()
	req.UserID = "u1"
	req.GuestName = ""
	req.GuestPhone = ""

	got, err := rl.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != "u1" || got.GuestName != "" || got.GuestPhone != "" {
		t.Fatalf("identity fields wrong: %+v", got)
	}
}

func TestSubmitOffloadsDataURLToStore(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	repo := &stubOrderRepo{}
	rl := NewRelay(repo, store)

	imgBytes := []byte{1, 2, 3, 4, 5, 6, 7}
	req := validRequest()
	req.ImageRef = image.EncodeDataURL("image/png", imgBytes)

	got, err := rl.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got.ImageRef, "orders/") || !strings.HasSuffix(got.ImageRef, ".png") {
		t.Fatalf("image ref not rewritten to storage key: %q", got.ImageRef)
	}
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(got.ImageRef)))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if !bytes.Equal(data, imgBytes) {
		t.Fatal("stored bytes differ from submitted image")
	}
}

func TestSubmitSurfacesStorageFailureWithoutRetry(t *testing.T) {
	repo := &stubOrderRepo{err: errors.New("connection reset")}
	rl := NewRelay(repo, nil)

	_, err := rl.Submit(context.Background(), validRequest())
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("storage failure not surfaced: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("create calls = %d, want exactly 1 (no retry)", len(repo.created))
	}
}
