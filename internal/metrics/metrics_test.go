package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncrementAttachmentUpload(t *testing.T) {
	okBefore := testutil.ToFloat64(AttachmentUploads.WithLabelValues("success"))
	failBefore := testutil.ToFloat64(AttachmentUploads.WithLabelValues("failed"))
	bytesBefore := testutil.ToFloat64(AttachmentBytes)

	IncrementAttachmentUpload(true, 100)
	IncrementAttachmentUpload(false, 50)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(AttachmentUploads.WithLabelValues("success")))
	assert.Equal(t, failBefore+1, testutil.ToFloat64(AttachmentUploads.WithLabelValues("failed")))
	assert.Equal(t, bytesBefore+100, testutil.ToFloat64(AttachmentBytes))
}

func TestIncrementStatusTransition(t *testing.T) {
	before := testutil.ToFloat64(StatusTransitions.WithLabelValues("rfi", "Closed"))
	IncrementStatusTransition("rfi", "Closed")
	assert.Equal(t, before+1, testutil.ToFloat64(StatusTransitions.WithLabelValues("rfi", "Closed")))
}

func TestRecordUseCase(t *testing.T) {
	RecordUseCase("project.create", true, 5*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(UseCaseDuration), 1)
}
