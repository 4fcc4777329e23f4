package medicalrecord

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/store"
	"github.com/medhq/hospital-api/internal/store/storetest"
)

type stubBlobs struct {
	uploads   []string
	removes   []string
	removeErr error
}

func (s *stubBlobs) Upload(ctx context.Context, bucket, name string, data []byte) (string, error) {
	s.uploads = append(s.uploads, name)
	return "http://store.local/object/public/" + bucket + "/" + name, nil
}

func (s *stubBlobs) Remove(ctx context.Context, bucket, name string) error {
	s.removes = append(s.removes, name)
	return s.removeErr
}

func testInput() Input {
	return Input{
		PatientID:  uuid.New(),
		DoctorID:   uuid.New(),
		RecordType: "lab_test",
		Diagnosis:  "Healthy",
		Treatment:  "None",
		RecordDate: "2025-05-01",
	}
}

func TestCreateWithAttachmentUploadsFirst(t *testing.T) {
	fake := storetest.New()
	blobs := &stubBlobs{}
	svc := NewService(fake, blobs)

	actor := &model.Identity{ID: uuid.New(), Role: model.RoleDoctor}
	id, err := svc.Create(context.Background(), actor, testInput(), &Attachment{
		Filename: "scan.pdf",
		Data:     []byte("pdf-bytes"),
	})
	require.NoError(t, err)
	require.Len(t, blobs.uploads, 1)

	row := fake.Row(store.MedicalRecords, id)
	require.NotNil(t, row)
	url := row["attachment_url"].(string)
	assert.Contains(t, url, blobs.uploads[0])
	assert.Equal(t, actor.ID, row["created_by"])
}

func TestCreateWithoutAttachment(t *testing.T) {
	fake := storetest.New()
	blobs := &stubBlobs{}
	svc := NewService(fake, blobs)

	actor := &model.Identity{ID: uuid.New()}
	id, err := svc.Create(context.Background(), actor, testInput(), nil)
	require.NoError(t, err)

	assert.Empty(t, blobs.uploads)
	assert.Equal(t, "", fake.Row(store.MedicalRecords, id)["attachment_url"])
}

func TestUpdateKeepsExistingAttachment(t *testing.T) {
	fake := storetest.New()
	blobs := &stubBlobs{}
	svc := NewService(fake, blobs)

	id := uuid.New()
	fake.Seed(store.MedicalRecords, id, store.Row{
		"patient_id":     uuid.New(),
		"doctor_id":      uuid.New(),
		"record_type":    "lab_test",
		"attachment_url": "http://store.local/object/public/medical-attachments/old_scan.pdf",
	})

	actor := &model.Identity{ID: uuid.New()}
	require.NoError(t, svc.Update(context.Background(), actor, id, testInput(), nil))

	row := fake.Row(store.MedicalRecords, id)
	assert.Equal(t, "http://store.local/object/public/medical-attachments/old_scan.pdf", row["attachment_url"])
	assert.Equal(t, actor.ID, row["updated_by"])
	assert.Empty(t, blobs.uploads)
}

func TestDeleteSucceedsWhenBlobAlreadyGone(t *testing.T) {
	fake := storetest.New()
	blobs := &stubBlobs{removeErr: errors.New("object not found")}
	svc := NewService(fake, blobs)

	id := uuid.New()
	fake.Seed(store.MedicalRecords, id, store.Row{
		"patient_id":     uuid.New(),
		"doctor_id":      uuid.New(),
		"attachment_url": "http://store.local/object/public/medical-attachments/abc_scan.pdf",
	})

	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Equal(t, []string{"abc_scan.pdf"}, blobs.removes)
	assert.Nil(t, fake.Row(store.MedicalRecords, id), "row must be deleted despite blob failure")
}

func TestDeleteWithoutAttachmentSkipsBlobStore(t *testing.T) {
	fake := storetest.New()
	blobs := &stubBlobs{}
	svc := NewService(fake, blobs)

	id := uuid.New()
	fake.Seed(store.MedicalRecords, id, store.Row{
		"patient_id":     uuid.New(),
		"attachment_url": "",
	})

	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Empty(t, blobs.removes)
	assert.Nil(t, fake.Row(store.MedicalRecords, id))
}

func TestForPatientNewestFirst(t *testing.T) {
	fake := storetest.New()
	svc := NewService(fake, &stubBlobs{})

	patientID := uuid.New()
	fake.Seed(store.MedicalRecords, uuid.New(), store.Row{
		"patient_id":  patientID,
		"record_date": "2025-01-01",
	})
	fake.Seed(store.MedicalRecords, uuid.New(), store.Row{
		"patient_id":  patientID,
		"record_date": "2025-03-01",
	})
	fake.Seed(store.MedicalRecords, uuid.New(), store.Row{
		"patient_id":  uuid.New(),
		"record_date": "2025-02-01",
	})

	records, err := svc.ForPatient(context.Background(), patientID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-03-01", records[0].RecordDate)
	assert.Equal(t, "2025-01-01", records[1].RecordDate)
}
