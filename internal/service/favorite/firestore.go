package favorite

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const favoritesCollection = "favorites"

type firestoreFavorite struct {
	UserID    string    `firestore:"user_id"`
	BiodataID int64     `firestore:"biodata_id"`
	CreatedAt time.Time `firestore:"created_at"`
}

// FirestoreStore implements Store using Firestore. The document ID encodes the
// (user, biodata) pair so uniqueness is enforced by the document key.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) doc(userID string, biodataID int64) *firestore.DocumentRef {
	return s.client.Collection(favoritesCollection).Doc(fmt.Sprintf("%s_%d", userID, biodataID))
}

// Add creates the pair document in a transaction to prevent duplicates.
func (s *FirestoreStore) Add(ctx context.Context, f Favorite) error {
	ref := s.doc(f.UserID, f.BiodataID)
	return s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err == nil && snap.Exists() {
			return ErrAlreadyExists
		}
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		return tx.Create(ref, firestoreFavorite{
			UserID:    f.UserID,
			BiodataID: f.BiodataID,
			CreatedAt: f.CreatedAt.UTC(),
		})
	})
}

// Remove deletes the pair document using a transaction to ensure it exists.
func (s *FirestoreStore) Remove(ctx context.Context, userID string, biodataID int64) error {
	ref := s.doc(userID, biodataID)
	return s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(ref)
	})
}

// List returns the user's favorites newest first.
func (s *FirestoreStore) List(ctx context.Context, userID string) ([]Favorite, error) {
	snaps, err := s.client.Collection(favoritesCollection).
		Where("user_id", "==", userID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]Favorite, 0, len(snaps))
	for _, snap := range snaps {
		var ff firestoreFavorite
		if err := snap.DataTo(&ff); err != nil {
			return nil, err
		}
		out = append(out, Favorite(ff))
	}
	slices.SortFunc(out, newestFirst)
	return out, nil
}

// Exists reports whether the pair document exists.
func (s *FirestoreStore) Exists(ctx context.Context, userID string, biodataID int64) (bool, error) {
	_, err := s.doc(userID, biodataID).Get(ctx)
	if err == nil {
		return true, nil
	}
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	return false, err
}

// RemoveAllForBiodata deletes every favorite of biodataID with a BulkWriter.
func (s *FirestoreStore) RemoveAllForBiodata(ctx context.Context, biodataID int64) error {
	snaps, err := s.client.Collection(favoritesCollection).
		Where("biodata_id", "==", biodataID).
		Documents(ctx).GetAll()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(snaps))
	for _, snap := range snaps {
		job, err := bw.Delete(snap.Ref)
		if err != nil {
			bw.End()
			return err
		}
		jobs = append(jobs, job)
	}
	bw.End()

	var errs []error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Compile-time interface check
var _ Store = (*FirestoreStore)(nil)
