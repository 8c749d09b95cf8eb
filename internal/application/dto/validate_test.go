package dto_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
)

func TestValidate_CamposConNombreJSON(t *testing.T) {
	err := dto.Validate(dto.ClientRequest{Name: "", Email: "no-es-email"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
}

func TestValidate_LineasAnidadas(t *testing.T) {
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	req := dto.InvoiceRequest{ClientID: "c1", Items: []dto.InvoiceItemRequest{{Description: string(long)}}}
	err := dto.Validate(req)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "items[0].description")
}

func TestValidate_FechaInvalida(t *testing.T) {
	err := dto.Validate(dto.InvoiceRequest{ClientID: "c1", DueDate: "14/10/2026"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "due_date")
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, dto.Validate(dto.LoginRequest{Email: "a@b.co", Password: "x"}))
}
