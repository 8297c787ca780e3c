package biodata

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	biodatasCollection = "biodatas"
	ownersCollection   = "biodata_owners"
	viewsCollection    = "views"
	countersCollection = "counters"
)

type firestoreAddress struct {
	Country  string `firestore:"country"`
	Division string `firestore:"division"`
	District string `firestore:"district"`
	Upazila  string `firestore:"upazila"`
	Area     string `firestore:"area"`
}

// firestoreBiodata maps to the Firestore document structure.
type firestoreBiodata struct {
	ID                     int64            `firestore:"id"`
	OwnerID                string           `firestore:"owner_id"`
	ApprovalStatus         string           `firestore:"approval_status"`
	VisibilityStatus       string           `firestore:"visibility_status"`
	Gender                 string           `firestore:"gender"`
	MaritalStatus          string           `firestore:"marital_status"`
	FullName               string           `firestore:"full_name"`
	BirthDate              *time.Time       `firestore:"birth_date"`
	Permanent              firestoreAddress `firestore:"permanent_address"`
	Present                firestoreAddress `firestore:"present_address"`
	PresentSameAsPermanent bool             `firestore:"present_same_as_permanent"`
	ViewCount              int64            `firestore:"view_count"`
	CreatedAt              time.Time        `firestore:"created_at"`
	UpdatedAt              time.Time        `firestore:"updated_at"`
}

type firestoreView struct {
	ViewerID  string    `firestore:"viewer_id"`
	IPAddress string    `firestore:"ip_address"`
	UserAgent string    `firestore:"user_agent"`
	ViewedAt  time.Time `firestore:"viewed_at"`
}

type firestoreOwner struct {
	BiodataID int64 `firestore:"biodata_id"`
}

type firestoreCounter struct {
	Next int64 `firestore:"next"`
}

func toFirestoreAddress(a Address) firestoreAddress {
	return firestoreAddress(a)
}

func (fb *firestoreBiodata) toBiodata() *Biodata {
	return &Biodata{
		ID:                     fb.ID,
		OwnerID:                fb.OwnerID,
		ApprovalStatus:         ApprovalStatus(fb.ApprovalStatus),
		VisibilityStatus:       VisibilityStatus(fb.VisibilityStatus),
		Gender:                 fb.Gender,
		MaritalStatus:          fb.MaritalStatus,
		FullName:               fb.FullName,
		BirthDate:              fb.BirthDate,
		PermanentAddress:       Address(fb.Permanent),
		PresentAddress:         Address(fb.Present),
		PresentSameAsPermanent: fb.PresentSameAsPermanent,
		ViewCount:              fb.ViewCount,
		CreatedAt:              fb.CreatedAt,
		UpdatedAt:              fb.UpdatedAt,
	}
}

// FirestoreStore implements Store using Firestore. IDs come from a counter
// document; views live in a per-biodata subcollection.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) doc(id int64) *firestore.DocumentRef {
	return s.client.Collection(biodatasCollection).Doc(strconv.FormatInt(id, 10))
}

func notFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// Create allocates an ID and writes the biodata and its owner index in one transaction.
func (s *FirestoreStore) Create(ctx context.Context, b *Biodata) (*Biodata, error) {
	counterRef := s.client.Collection(countersCollection).Doc(biodatasCollection)
	ownerRef := s.client.Collection(ownersCollection).Doc(b.OwnerID)

	var result *Biodata
	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		ownerDoc, err := tx.Get(ownerRef)
		if err == nil && ownerDoc.Exists() {
			return ErrAlreadyExists
		}
		if err != nil && !notFound(err) {
			return err
		}

		var counter firestoreCounter
		counterDoc, err := tx.Get(counterRef)
		switch {
		case err == nil:
			if err := counterDoc.DataTo(&counter); err != nil {
				return err
			}
		case !notFound(err):
			return err
		}
		counter.Next++

		stored := b.clone()
		stored.ID = counter.Next
		fb := fromBiodata(stored)

		if err := tx.Set(counterRef, counter); err != nil {
			return err
		}
		if err := tx.Create(ownerRef, firestoreOwner{BiodataID: stored.ID}); err != nil {
			return err
		}
		if err := tx.Create(s.doc(stored.ID), fb); err != nil {
			return err
		}
		result = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func fromBiodata(b *Biodata) firestoreBiodata {
	return firestoreBiodata{
		ID:                     b.ID,
		OwnerID:                b.OwnerID,
		ApprovalStatus:         string(b.ApprovalStatus),
		VisibilityStatus:       string(b.VisibilityStatus),
		Gender:                 b.Gender,
		MaritalStatus:          b.MaritalStatus,
		FullName:               b.FullName,
		BirthDate:              b.BirthDate,
		Permanent:              toFirestoreAddress(b.PermanentAddress),
		Present:                toFirestoreAddress(b.PresentAddress),
		PresentSameAsPermanent: b.PresentSameAsPermanent,
		ViewCount:              b.ViewCount,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}
}

// Update writes owner-editable fields in a transaction.
func (s *FirestoreStore) Update(ctx context.Context, b *Biodata) (*Biodata, error) {
	return s.update(ctx, b.ID, []firestore.Update{
		{Path: "gender", Value: b.Gender},
		{Path: "marital_status", Value: b.MaritalStatus},
		{Path: "full_name", Value: b.FullName},
		{Path: "birth_date", Value: b.BirthDate},
		{Path: "permanent_address", Value: toFirestoreAddress(b.PermanentAddress)},
		{Path: "present_address", Value: toFirestoreAddress(b.PresentAddress)},
		{Path: "present_same_as_permanent", Value: b.PresentSameAsPermanent},
		{Path: "updated_at", Value: b.UpdatedAt},
	})
}

// SetApprovalStatus sets the moderation axis.
func (s *FirestoreStore) SetApprovalStatus(ctx context.Context, id int64, st ApprovalStatus) (*Biodata, error) {
	return s.update(ctx, id, []firestore.Update{
		{Path: "approval_status", Value: string(st)},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
}

// SetVisibilityStatus sets the owner visibility axis.
func (s *FirestoreStore) SetVisibilityStatus(ctx context.Context, id int64, st VisibilityStatus) (*Biodata, error) {
	return s.update(ctx, id, []firestore.Update{
		{Path: "visibility_status", Value: string(st)},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
}

func (s *FirestoreStore) update(ctx context.Context, id int64, updates []firestore.Update) (*Biodata, error) {
	ref := s.doc(id)
	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if notFound(err) {
				return ErrNotFound
			}
			return err
		}
		return tx.Update(ref, updates)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Get retrieves a biodata by ID.
func (s *FirestoreStore) Get(ctx context.Context, id int64) (*Biodata, error) {
	snap, err := s.doc(id).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var fb firestoreBiodata
	if err := snap.DataTo(&fb); err != nil {
		return nil, err
	}
	return fb.toBiodata(), nil
}

// GetByOwner resolves the owner index and loads the biodata.
func (s *FirestoreStore) GetByOwner(ctx context.Context, ownerID string) (*Biodata, error) {
	snap, err := s.client.Collection(ownersCollection).Doc(ownerID).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var owner firestoreOwner
	if err := snap.DataTo(&owner); err != nil {
		return nil, err
	}
	return s.Get(ctx, owner.BiodataID)
}

// Delete removes the view subcollection with a BulkWriter, then the biodata and its owner index.
func (s *FirestoreStore) Delete(ctx context.Context, id int64) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.deleteViews(ctx, id); err != nil {
		return fmt.Errorf("delete views: %w", err)
	}

	ref := s.doc(id)
	ownerRef := s.client.Collection(ownersCollection).Doc(b.OwnerID)
	return s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if notFound(err) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Delete(ref); err != nil {
			return err
		}
		return tx.Delete(ownerRef)
	})
}

func (s *FirestoreStore) deleteViews(ctx context.Context, id int64) error {
	bw := s.client.BulkWriter(ctx)
	iter := s.doc(id).Collection(viewsCollection).DocumentRefs(ctx)
	var jobs []*firestore.BulkWriterJob
	for {
		ref, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			bw.End()
			return err
		}
		job, err := bw.Delete(ref)
		if err != nil {
			bw.End()
			return err
		}
		jobs = append(jobs, job)
	}
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return err
		}
	}
	return nil
}

// ListCandidates pushes equality predicates to Firestore and evaluates the rest in process.
func (s *FirestoreStore) ListCandidates(ctx context.Context, q CandidateQuery) ([]*Biodata, error) {
	if q.ID != nil {
		b, err := s.Get(ctx, *q.ID)
		if errors.Is(err, ErrNotFound) {
			return []*Biodata{}, nil
		}
		if err != nil {
			return nil, err
		}
		return Filter([]*Biodata{b}, MatchesCandidate(q)), nil
	}

	query := s.client.Collection(biodatasCollection).Query
	if q.Gender != "" {
		query = query.Where("gender", "==", q.Gender)
	}
	if q.MaritalStatus != "" {
		query = query.Where("marital_status", "==", q.MaritalStatus)
	}
	items, err := s.all(ctx, query)
	if err != nil {
		return nil, err
	}
	return Filter(items, MatchesCandidate(q)), nil
}

// ListByApproval lists biodatas newest first.
func (s *FirestoreStore) ListByApproval(ctx context.Context, st ApprovalStatus) ([]*Biodata, error) {
	query := s.client.Collection(biodatasCollection).Query
	if st != "" {
		query = query.Where("approval_status", "==", string(st))
	}
	return s.all(ctx, query)
}

func (s *FirestoreStore) all(ctx context.Context, q firestore.Query) ([]*Biodata, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]*Biodata, 0, len(snaps))
	for _, snap := range snaps {
		var fb firestoreBiodata
		if err := snap.DataTo(&fb); err != nil {
			return nil, err
		}
		out = append(out, fb.toBiodata())
	}
	slices.SortFunc(out, func(a, b *Biodata) int { return cmp.Compare(b.ID, a.ID) })
	return out, nil
}

// HasRecentView queries the view subcollection for a matching view at or after since.
func (s *FirestoreStore) HasRecentView(ctx context.Context, key ViewKey, since time.Time) (bool, error) {
	q := s.doc(key.BiodataID).Collection(viewsCollection).Query
	if key.Anonymous() {
		q = q.Where("ip_address", "==", key.IPAddress).Where("viewer_id", "==", "")
	} else {
		q = q.Where("viewer_id", "==", key.ViewerID)
	}
	snaps, err := q.Where("viewed_at", ">=", since.UTC()).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return false, err
	}
	return len(snaps) > 0, nil
}

// AddView creates the view and increments view_count with firestore.Increment in one transaction.
func (s *FirestoreStore) AddView(ctx context.Context, v *View) error {
	ref := s.doc(v.BiodataID)
	viewRef := ref.Collection(viewsCollection).NewDoc()
	return s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if notFound(err) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Create(viewRef, firestoreView{
			ViewerID:  v.ViewerID,
			IPAddress: v.IPAddress,
			UserAgent: v.UserAgent,
			ViewedAt:  v.ViewedAt.UTC(),
		}); err != nil {
			return err
		}
		return tx.Update(ref, []firestore.Update{{Path: "view_count", Value: firestore.Increment(1)}})
	})
}

// CountViews runs a count aggregation over the view subcollection.
func (s *FirestoreStore) CountViews(ctx context.Context, biodataID int64, since time.Time) (int64, error) {
	q := s.doc(biodataID).Collection(viewsCollection).Where("viewed_at", ">=", since.UTC())
	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected count result %T", res["all"])
	}
	return v.GetIntegerValue(), nil
}

// Compile-time interface check
var _ Store = (*FirestoreStore)(nil)
