package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
	"github.com/zatekoja/ehr-document-pipeline/internal/domain/repositories"
	"github.com/zatekoja/ehr-document-pipeline/pkg/errors"
)

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := entities.NewRawDocument("DOC001", "PT001", "EPIC", "progress_note", "Patient on metformin 500mg.")
	err := store.Save(ctx, doc)
	assert.NoError(t, err)

	got, err := store.GetByID(ctx, "DOC001")
	assert.NoError(t, err)
	assert.Equal(t, "PT001", got.PatientID)

	count, err := store.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDocumentStore_GetMissing(t *testing.T) {
	store := NewDocumentStore()

	_, err := store.GetByID(context.Background(), "DOC999")
	assert.Error(t, err)
	var appErr *errors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeNotFound, appErr.Type)
}

func TestDocumentStore_SaveReplacesByID(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	assert.NoError(t, store.Save(ctx, entities.NewRawDocument("DOC001", "PT001", "EPIC", "progress_note", "v1")))
	assert.NoError(t, store.Save(ctx, entities.NewRawDocument("DOC001", "PT001", "EPIC", "progress_note", "v2")))

	got, err := store.GetByID(ctx, "DOC001")
	assert.NoError(t, err)
	assert.Equal(t, "v2", got.RawContent)

	count, _ := store.Count(ctx)
	assert.Equal(t, 1, count)
}

func TestDocumentStore_ListByPatient(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	assert.NoError(t, store.Save(ctx, entities.NewRawDocument("DOC001", "PT001", "EPIC", "lab_report", "a")))
	assert.NoError(t, store.Save(ctx, entities.NewRawDocument("DOC002", "PT002", "EPIC", "lab_report", "b")))
	assert.NoError(t, store.Save(ctx, entities.NewRawDocument("DOC003", "PT001", "CERNER", "clinical_note", "c")))

	docs, err := store.ListByPatient(ctx, "PT001")
	assert.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, "DOC001", docs[0].DocumentID)
	assert.Equal(t, "DOC003", docs[1].DocumentID)
}

func TestEntityStore_Pagination(t *testing.T) {
	store := NewEntityStore()
	ctx := context.Background()

	var batch []*entities.EntityRecord
	for i := 0; i < 5; i++ {
		batch = append(batch, &entities.EntityRecord{
			DocumentID:  fmt.Sprintf("DOC%03d", i),
			PatientID:   "PT001",
			Entity:      entities.ClinicalEntity{Kind: entities.EntityKindMedication, Value: "metformin"},
			ProcessedAt: time.Now().UTC(),
		})
	}
	assert.NoError(t, store.SaveBatch(ctx, batch))

	page, total, err := store.List(ctx, 2, 2)
	assert.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page, 2)
	assert.Equal(t, "DOC002", page[0].DocumentID)

	page, total, err = store.List(ctx, 10, 4)
	assert.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page, 1)

	page, _, err = store.List(ctx, 10, 99)
	assert.NoError(t, err)
	assert.Empty(t, page)
}

func TestProfileStore_PutReplaces(t *testing.T) {
	store := NewProfileStore()
	ctx := context.Background()

	first := &entities.PatientProfile{PatientID: "PT001", BusinessValue: 0.5}
	second := &entities.PatientProfile{PatientID: "PT001", BusinessValue: 0.8}

	assert.NoError(t, store.Put(ctx, first))
	assert.NoError(t, store.Put(ctx, second))

	got, err := store.GetByPatient(ctx, "PT001")
	assert.NoError(t, err)
	assert.Equal(t, 0.8, got.BusinessValue)

	profiles, total, err := store.List(ctx, 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, profiles, 1)
}

func TestProfileStore_ValidatesPatientID(t *testing.T) {
	store := NewProfileStore()
	err := store.Put(context.Background(), &entities.PatientProfile{})
	assert.Error(t, err)
}

func TestPatientStore_ReplaceAll(t *testing.T) {
	store := NewPatientStore()
	ctx := context.Background()

	assert.NoError(t, store.Save(ctx, &entities.Patient{ID: "PT001", Name: "Old Patient"}))

	err := store.ReplaceAll(ctx, []*entities.Patient{
		{ID: "PT100", Name: "New Patient A"},
		{ID: "PT101", Name: "New Patient B"},
	})
	assert.NoError(t, err)

	_, err = store.GetByID(ctx, "PT001")
	assert.Error(t, err)

	patients, total, err := store.List(ctx, 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "PT100", patients[0].ID)
}

func TestResourceStore_ListFilters(t *testing.T) {
	store := NewResourceStore()
	ctx := context.Background()

	save := func(key, patientID, resourceType string, state entities.ProcessingState) {
		err := store.Save(ctx, &entities.EHRResource{
			Metadata: entities.ResourceMetadata{
				State:        state,
				ResourceType: resourceType,
				Identifier:   entities.ResourceIdentifier{Key: key, UID: key, PatientID: patientID},
			},
		})
		assert.NoError(t, err)
	}

	save("r1", "PT001", "lab_report", entities.ProcessingStateCompleted)
	save("r2", "PT001", "clinical_note", entities.ProcessingStateNotStarted)
	save("r3", "PT002", "lab_report", entities.ProcessingStateCompleted)

	got, total, err := store.List(ctx, repositories.ResourceFilter{PatientID: "PT001"})
	assert.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, got, 2)

	got, total, err = store.List(ctx, repositories.ResourceFilter{ResourceType: "lab_report", State: entities.ProcessingStateCompleted})
	assert.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "r1", got[0].Metadata.Identifier.Key)
	assert.Equal(t, "r3", got[1].Metadata.Identifier.Key)

	got, total, err = store.List(ctx, repositories.ResourceFilter{Limit: 1, Offset: 1})
	assert.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, got, 1)
	assert.Equal(t, "r2", got[0].Metadata.Identifier.Key)
}

func TestDerivedFactsStore_RoundTrip(t *testing.T) {
	store := NewDerivedFactsStore()
	ctx := context.Background()

	assert.NoError(t, store.Put(ctx, &entities.DerivedFacts{PatientID: "PT001", AgeYears: 58}))

	got, err := store.GetByPatient(ctx, "PT001")
	assert.NoError(t, err)
	assert.Equal(t, 58, got.AgeYears)

	assert.NoError(t, store.ReplaceAll(ctx, []*entities.DerivedFacts{{PatientID: "PT002"}}))
	_, err = store.GetByPatient(ctx, "PT001")
	assert.Error(t, err)
}

func TestDocumentStore_ConcurrentSaves(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("DOC%03d", n)
			_ = store.Save(ctx, entities.NewRawDocument(id, "PT001", "EPIC", "note", "content"))
		}(i)
	}
	wg.Wait()

	count, err := store.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 50, count)
}
