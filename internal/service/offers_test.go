package service

import (
	"context"
	"testing"

	"github.com/swiperight/swiperight-system/internal/model"
)

func TestSyncOffers_InsertsNewOffers(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(repo)

	batch := []model.OfferUpsert{
		{CardID: 1, MerchantName: "Amazon", OfferDescription: "5% back"},
		{CardID: 2, MerchantName: "Target", OfferDescription: "$10 off $50"},
	}

	synced, updated, err := svc.SyncOffers(context.Background(), 1, batch, []byte(`[]`))
	if err != nil {
		t.Fatalf("SyncOffers error: %v", err)
	}
	if synced != 2 || updated != 0 {
		t.Fatalf("synced = %d, updated = %d, want 2 and 0", synced, updated)
	}
	if len(repo.insertedOffers) != 2 {
		t.Fatalf("inserted %d offers, want 2", len(repo.insertedOffers))
	}
	if len(repo.auditSaved) != 1 {
		t.Fatalf("audit saved %d times, want 1", len(repo.auditSaved))
	}
}

func TestSyncOffers_UpdatesExistingOffer(t *testing.T) {
	repo := &stubRepo{existingOfferID: 42}
	svc := newTestService(repo)

	batch := []model.OfferUpsert{
		{CardID: 1, MerchantName: "Amazon", OfferDescription: "5% back"},
	}

	synced, updated, err := svc.SyncOffers(context.Background(), 1, batch, []byte(`[]`))
	if err != nil {
		t.Fatalf("SyncOffers error: %v", err)
	}
	if synced != 0 || updated != 1 {
		t.Fatalf("synced = %d, updated = %d, want 0 and 1", synced, updated)
	}
	if len(repo.updatedOffers) != 1 || repo.updatedOffers[0] != 42 {
		t.Fatalf("unexpected updated offers: %v", repo.updatedOffers)
	}
	if len(repo.insertedOffers) != 0 {
		t.Fatalf("inserted %d offers, want 0", len(repo.insertedOffers))
	}
}

func TestSyncOffers_EmptyBatch(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(repo)

	synced, updated, err := svc.SyncOffers(context.Background(), 1, nil, []byte(`[]`))
	if err != nil {
		t.Fatalf("SyncOffers error: %v", err)
	}
	if synced != 0 || updated != 0 {
		t.Fatalf("synced = %d, updated = %d, want 0 and 0", synced, updated)
	}
	if len(repo.auditSaved) != 1 {
		t.Fatalf("audit saved %d times, want 1", len(repo.auditSaved))
	}
}
