package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/jobagent/pkg/candidate"
	"github.com/artem13815/jobagent/pkg/document"
	"github.com/artem13815/jobagent/pkg/listing"
)

type fakeAppRepo struct {
	apps map[uuid.UUID]Application
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{apps: map[uuid.UUID]Application{}}
}

func (r *fakeAppRepo) Create(_ context.Context, a Application) error {
	r.apps[a.ID] = a
	return nil
}

func (r *fakeAppRepo) GetForOwner(_ context.Context, candidateID, id uuid.UUID) (Application, error) {
	a, ok := r.apps[id]
	if !ok || a.CandidateID != candidateID {
		return Application{}, ErrNotFound
	}
	return a, nil
}

func (r *fakeAppRepo) ListByOwner(_ context.Context, candidateID uuid.UUID) ([]Application, error) {
	var res []Application
	for _, a := range r.apps {
		if a.CandidateID == candidateID {
			res = append(res, a)
		}
	}
	return res, nil
}

func (r *fakeAppRepo) Update(_ context.Context, a Application) error {
	if _, ok := r.apps[a.ID]; !ok {
		return ErrNotFound
	}
	r.apps[a.ID] = a
	return nil
}

// fakeCandidates knows a single candidate; the embedded interface covers the
// methods the application service never calls.
type fakeCandidates struct {
	candidate.Repository
	known uuid.UUID
}

func (f *fakeCandidates) GetByID(_ context.Context, id uuid.UUID) (candidate.Candidate, error) {
	if id != f.known {
		return candidate.Candidate{}, candidate.ErrNotFound
	}
	return candidate.Candidate{ID: id}, nil
}

type fakeListings struct {
	listing.Repository
	known uuid.UUID
}

func (f *fakeListings) GetByID(_ context.Context, id uuid.UUID) (listing.Listing, error) {
	if id != f.known {
		return listing.Listing{}, listing.ErrNotFound
	}
	return listing.Listing{ID: id}, nil
}

// fakeDocuments keys ownership by candidate and kind.
type fakeDocuments struct {
	document.Repository
	docs map[uuid.UUID]document.Document
}

func (f *fakeDocuments) GetForOwner(_ context.Context, candidateID uuid.UUID, kind document.Kind, id uuid.UUID) (document.Document, error) {
	d, ok := f.docs[id]
	if !ok || d.CandidateID != candidateID || d.Kind != kind {
		return document.Document{}, document.ErrNotFound
	}
	return d, nil
}

type fixture struct {
	svc       UseCase
	repo      *fakeAppRepo
	candID    uuid.UUID
	listingID uuid.UUID
	docs      *fakeDocuments
}

func newFixture() *fixture {
	repo := newFakeAppRepo()
	candID := uuid.New()
	listingID := uuid.New()
	docs := &fakeDocuments{docs: map[uuid.UUID]document.Document{}}
	svc := NewService(repo, &fakeCandidates{known: candID}, &fakeListings{known: listingID}, docs)
	return &fixture{svc: svc, repo: repo, candID: candID, listingID: listingID, docs: docs}
}

func (f *fixture) addDoc(kind document.Kind, owner uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.docs.docs[id] = document.Document{ID: id, CandidateID: owner, Kind: kind}
	return id
}

func TestCreateDefaults(t *testing.T) {
	f := newFixture()

	a, err := f.svc.Create(context.Background(), f.candID, CreateInput{ListingID: f.listingID, Notes: "referred by Sam"})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, a.Status, "new applications start as pending")
	assert.Nil(t, a.ResumeID)
	assert.Nil(t, a.CoverLetterID)
	assert.Equal(t, "referred by Sam", a.Notes)
	assert.Contains(t, f.repo.apps, a.ID)
}

func TestCreateWithDocuments(t *testing.T) {
	f := newFixture()
	resumeID := f.addDoc(document.KindResume, f.candID)
	coverID := f.addDoc(document.KindCoverLetter, f.candID)

	a, err := f.svc.Create(context.Background(), f.candID, CreateInput{
		ListingID:     f.listingID,
		ResumeID:      &resumeID,
		CoverLetterID: &coverID,
	})
	require.NoError(t, err)
	require.NotNil(t, a.ResumeID)
	assert.Equal(t, resumeID, *a.ResumeID)
	require.NotNil(t, a.CoverLetterID)
	assert.Equal(t, coverID, *a.CoverLetterID)
}

func TestCreateRejectsForeignResume(t *testing.T) {
	f := newFixture()
	foreign := f.addDoc(document.KindResume, uuid.New())

	_, err := f.svc.Create(context.Background(), f.candID, CreateInput{
		ListingID: f.listingID,
		ResumeID:  &foreign,
	})
	assert.ErrorIs(t, err, document.ErrNotFound, "someone else's resume answers like a missing one")
	assert.Empty(t, f.repo.apps, "nothing is written on a rejected reference")
}

func TestCreateRejectsKindMismatch(t *testing.T) {
	f := newFixture()
	// a cover letter id passed where a resume is expected must not resolve
	coverID := f.addDoc(document.KindCoverLetter, f.candID)

	_, err := f.svc.Create(context.Background(), f.candID, CreateInput{
		ListingID: f.listingID,
		ResumeID:  &coverID,
	})
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestCreateUnknownReferences(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), uuid.New(), CreateInput{ListingID: f.listingID})
	assert.ErrorIs(t, err, candidate.ErrNotFound)

	_, err = f.svc.Create(context.Background(), f.candID, CreateInput{ListingID: uuid.New()})
	assert.ErrorIs(t, err, listing.ErrNotFound)

	assert.Empty(t, f.repo.apps)
}

func TestUpdateStatusAndNotes(t *testing.T) {
	f := newFixture()
	a, err := f.svc.Create(context.Background(), f.candID, CreateInput{ListingID: f.listingID})
	require.NoError(t, err)

	st := StatusInterviewing
	got, err := f.svc.Update(context.Background(), f.candID, a.ID, UpdateInput{Status: &st})
	require.NoError(t, err)
	assert.Equal(t, StatusInterviewing, got.Status)
	assert.Equal(t, a.Notes, got.Notes, "absent notes stay untouched")

	notes := "phone screen on Friday"
	got, err = f.svc.Update(context.Background(), f.candID, a.ID, UpdateInput{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, StatusInterviewing, got.Status, "absent status stays untouched")
	assert.Equal(t, notes, got.Notes)
	assert.True(t, !got.UpdatedAt.Before(a.UpdatedAt))
}

func TestUpdateInvalidStatus(t *testing.T) {
	f := newFixture()
	a, err := f.svc.Create(context.Background(), f.candID, CreateInput{ListingID: f.listingID})
	require.NoError(t, err)

	bad := Status("ghosted")
	_, err = f.svc.Update(context.Background(), f.candID, a.ID, UpdateInput{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	stored, err := f.repo.GetForOwner(context.Background(), f.candID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status, "a rejected update leaves the row alone")
}

func TestOwnershipOnReadAndUpdate(t *testing.T) {
	f := newFixture()
	a, err := f.svc.Create(context.Background(), f.candID, CreateInput{ListingID: f.listingID})
	require.NoError(t, err)

	_, err = f.svc.GetForCandidate(context.Background(), uuid.New(), a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	st := StatusApplied
	_, err = f.svc.Update(context.Background(), uuid.New(), a.ID, UpdateInput{Status: &st})
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := f.svc.ListByCandidate(context.Background(), f.candID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
