package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"bombom/internal/domain"
)

var errDatabaseDown = errors.New("connection refused")

func submissionBody() map[string]any {
	return map[string]any{
		"selection": map[string]any{
			"chocolate_id": "c1",
			"base_id":      "b1",
			"ganache_id":   "g1",
			"geleia_id":    "j1",
			"cor_id":       "p1",
		},
		"prompt":         "Foto de produto hiper-realista",
		"url_imagem":     "orders/abc.png",
		"guest_nome":     "Maria",
		"guest_telefone": "+55 11 99999-0000",
	}
}

func TestSubmitGuestOrder(t *testing.T) {
	app, repo := newTestApp(t, &stubGenerator{})

	rec := postJSON(t, app.Submit, submissionBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		OK    bool         `json:"ok"`
		Order domain.Order `json:"order"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.OK {
		t.Error("ok = false")
	}
	if resp.Order.Status != domain.OrderStatusSubmitted {
		t.Errorf("status = %q, want %q", resp.Order.Status, domain.OrderStatusSubmitted)
	}
	if resp.Order.GuestName != "Maria" {
		t.Errorf("guest_nome = %q", resp.Order.GuestName)
	}
	if len(repo.orders) != 1 {
		t.Fatalf("persisted orders = %d, want 1", len(repo.orders))
	}
}

func TestSubmitMissingIdentityRejected(t *testing.T) {
	app, repo := newTestApp(t, &stubGenerator{})

	body := submissionBody()
	delete(body, "guest_nome")
	delete(body, "guest_telefone")
	rec := postJSON(t, app.Submit, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "validation" {
		t.Errorf("error = %q", resp.Error)
	}
	if len(resp.Fields) == 0 {
		t.Error("fields not named in validation error")
	}
	if len(repo.orders) != 0 {
		t.Error("invalid submission was persisted")
	}
}

func TestSubmitIncompleteSelectionRejected(t *testing.T) {
	app, repo := newTestApp(t, &stubGenerator{})

	body := submissionBody()
	body["selection"] = map[string]any{"chocolate_id": "c1"}
	rec := postJSON(t, app.Submit, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(repo.orders) != 0 {
		t.Error("incomplete submission was persisted")
	}
}

func TestSubmitStorageFailureIsNotRetried(t *testing.T) {
	app, repo := newTestApp(t, &stubGenerator{})
	repo.err = errDatabaseDown

	rec := postJSON(t, app.Submit, submissionBody())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if repo.seq != 1 {
		t.Errorf("create attempts = %d, want exactly 1", repo.seq)
	}
}
