package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/jobagent/pkg/candidate"
)

// fakeCandidates answers GetByID for one known candidate; the embedded
// interface covers the methods the document service never calls.
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

type fakeDocRepo struct {
	docs       map[uuid.UUID]Document
	inUse      map[uuid.UUID]bool
	createErr  error
	createdSeq []uuid.UUID
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: map[uuid.UUID]Document{}, inUse: map[uuid.UUID]bool{}}
}

func (r *fakeDocRepo) Create(_ context.Context, d Document) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.docs[d.ID] = d
	r.createdSeq = append(r.createdSeq, d.ID)
	return nil
}

func (r *fakeDocRepo) GetForOwner(_ context.Context, candidateID uuid.UUID, kind Kind, id uuid.UUID) (Document, error) {
	d, ok := r.docs[id]
	if !ok || d.CandidateID != candidateID || d.Kind != kind {
		return Document{}, ErrNotFound
	}
	return d, nil
}

func (r *fakeDocRepo) GetByName(_ context.Context, candidateID uuid.UUID, kind Kind, name string) (Document, error) {
	for _, d := range r.docs {
		if d.CandidateID == candidateID && d.Kind == kind && d.Name == name {
			return d, nil
		}
	}
	return Document{}, ErrNotFound
}

func (r *fakeDocRepo) ListByOwner(_ context.Context, candidateID uuid.UUID, kind Kind) ([]Document, error) {
	var res []Document
	for _, d := range r.docs {
		if d.CandidateID == candidateID && d.Kind == kind {
			res = append(res, d)
		}
	}
	return res, nil
}

func (r *fakeDocRepo) DeleteForOwner(ctx context.Context, candidateID uuid.UUID, kind Kind, id uuid.UUID) (Document, error) {
	d, err := r.GetForOwner(ctx, candidateID, kind, id)
	if err != nil {
		return Document{}, err
	}
	if r.inUse[id] {
		return Document{}, ErrInUse
	}
	delete(r.docs, id)
	return d, nil
}

// fakeStorage records puts and removals.
type fakeStorage struct {
	objects map[string][]byte
	removed []string
	putErr  error
}

func newFakeStorage() *fakeStorage { return &fakeStorage{objects: map[string][]byte{}} }

func (s *fakeStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) PresignedGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	if _, ok := s.objects[key]; !ok {
		return "", errors.New("no such object")
	}
	return "https://bucket.test/" + key + "?ttl=" + ttl.String(), nil
}

func (s *fakeStorage) Remove(_ context.Context, key string) error {
	delete(s.objects, key)
	s.removed = append(s.removed, key)
	return nil
}

func (s *fakeStorage) Bucket() string { return "test-bucket" }

type stubExtractor struct {
	text string
	err  error
}

func (e stubExtractor) Extract(context.Context, []byte) (string, error) { return e.text, e.err }

func setup(t *testing.T) (UseCase, *fakeDocRepo, *fakeStorage, uuid.UUID) {
	t.Helper()
	repo := newFakeDocRepo()
	storage := newFakeStorage()
	candID := uuid.New()
	svc := NewService(repo, &fakeCandidates{known: candID}, storage, stubExtractor{text: "extracted text"})
	return svc, repo, storage, candID
}

func TestUploadRejectsNonPDF(t *testing.T) {
	svc, repo, storage, candID := setup(t)

	_, err := svc.Upload(context.Background(), candID, KindResume, UploadInput{
		Name:        "my resume",
		Data:        []byte("%PDF"),
		ContentType: "image/png",
	})
	assert.ErrorIs(t, err, ErrInvalidFileType)
	assert.Empty(t, repo.docs, "no document row may exist after a rejected upload")
	assert.Empty(t, storage.objects, "no object may exist after a rejected upload")
}

func TestUploadNameConflict(t *testing.T) {
	svc, repo, _, candID := setup(t)

	in := UploadInput{Name: "main", Data: []byte("%PDF"), ContentType: "application/pdf"}
	_, err := svc.Upload(context.Background(), candID, KindResume, in)
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), candID, KindResume, in)
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.Len(t, repo.docs, 1, "exactly one document exists afterward")

	// the same name is free for the other kind
	_, err = svc.Upload(context.Background(), candID, KindCoverLetter, in)
	assert.NoError(t, err)
}

func TestUploadExtractionFailureIsAllOrNothing(t *testing.T) {
	repo := newFakeDocRepo()
	storage := newFakeStorage()
	candID := uuid.New()
	svc := NewService(repo, &fakeCandidates{known: candID}, storage, stubExtractor{err: errors.New("broken pdf")})

	_, err := svc.Upload(context.Background(), candID, KindResume, UploadInput{
		Name: "main", Data: []byte("%PDF"), ContentType: "application/pdf",
	})
	require.Error(t, err)
	assert.Empty(t, repo.docs)
	assert.Empty(t, storage.objects, "object write must not precede extraction")
}

func TestUploadCleansUpObjectOnInsertFailure(t *testing.T) {
	repo := newFakeDocRepo()
	repo.createErr = errors.New("insert failed")
	storage := newFakeStorage()
	candID := uuid.New()
	svc := NewService(repo, &fakeCandidates{known: candID}, storage, stubExtractor{text: "ok"})

	_, err := svc.Upload(context.Background(), candID, KindResume, UploadInput{
		Name: "main", Data: []byte("%PDF"), ContentType: "application/pdf",
	})
	require.Error(t, err)
	assert.Empty(t, storage.objects, "orphaned object must be removed best-effort")
	assert.Len(t, storage.removed, 1)
}

func TestUploadSuccess(t *testing.T) {
	svc, repo, storage, candID := setup(t)

	d, err := svc.Upload(context.Background(), candID, KindResume, UploadInput{
		Name: "main", Data: []byte("%PDF"), ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "extracted text", d.TextContent)
	assert.Equal(t, "test-bucket", d.StoredFile.Bucket)
	assert.Contains(t, storage.objects, d.StoredFile.Key)
	assert.Contains(t, repo.docs, d.ID)

	// cover letters carry no extracted text
	cl, err := svc.Upload(context.Background(), candID, KindCoverLetter, UploadInput{
		Name: "intro", Data: []byte("%PDF"), ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Empty(t, cl.TextContent)
}

func TestUploadUnknownCandidate(t *testing.T) {
	svc, repo, storage, _ := setup(t)

	_, err := svc.Upload(context.Background(), uuid.New(), KindResume, UploadInput{
		Name: "main", Data: []byte("%PDF"), ContentType: "application/pdf",
	})
	assert.ErrorIs(t, err, candidate.ErrNotFound)
	assert.Empty(t, repo.docs)
	assert.Empty(t, storage.objects)
}

func TestPresignedURLOwnership(t *testing.T) {
	svc, _, _, candID := setup(t)

	d, err := svc.Upload(context.Background(), candID, KindResume, UploadInput{
		Name: "main", Data: []byte("%PDF"), ContentType: "application/pdf",
	})
	require.NoError(t, err)

	got, url, err := svc.PresignedURL(context.Background(), candID, KindResume, d.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	assert.Contains(t, url, d.StoredFile.Key)
	assert.Contains(t, url, DefaultPresignTTL.String(), "zero ttl falls back to the default window")

	// a different candidate cannot sign someone else's document
	_, _, err = svc.PresignedURL(context.Background(), uuid.New(), KindResume, d.ID, time.Minute)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, repo, storage, candID := setup(t)

	d, err := svc.Upload(context.Background(), candID, KindResume, UploadInput{
		Name: "main", Data: []byte("%PDF"), ContentType: "application/pdf",
	})
	require.NoError(t, err)

	// referenced documents are protected
	repo.inUse[d.ID] = true
	err = svc.Delete(context.Background(), candID, KindResume, d.ID)
	assert.ErrorIs(t, err, ErrInUse)
	assert.Contains(t, repo.docs, d.ID)

	repo.inUse[d.ID] = false
	require.NoError(t, svc.Delete(context.Background(), candID, KindResume, d.ID))
	assert.NotContains(t, repo.docs, d.ID)
	assert.NotContains(t, storage.objects, d.StoredFile.Key, "backing object is removed with the document")

	err = svc.Delete(context.Background(), candID, KindResume, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
