package dto_test

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epistock/internal/infrastructure/http/v1/dto"
)

func TestCancelNoteRequest_ReasonIsOptional(t *testing.T) {
	var req dto.CancelNoteRequest
	err := binding.JSON.BindBody([]byte(`{}`), &req)

	require.NoError(t, err)
	assert.Empty(t, req.Reason)
}

func TestSignDeliveryRequest_SignatureRefIsOptional(t *testing.T) {
	var req dto.SignDeliveryRequest
	err := binding.JSON.BindBody([]byte(`{}`), &req)

	require.NoError(t, err)
	assert.Empty(t, req.SignatureRef)
}

func TestIssueDeliveryRequest_RequiresItems(t *testing.T) {
	var req dto.IssueDeliveryRequest
	err := binding.JSON.BindBody([]byte(`{
		"fichaId": "0190b7a0-0000-7000-8000-000000000001",
		"warehouseId": "0190b7a0-0000-7000-8000-000000000002",
		"responsibleId": "0190b7a0-0000-7000-8000-000000000003",
		"items": []
	}`), &req)

	require.Error(t, err)
}
