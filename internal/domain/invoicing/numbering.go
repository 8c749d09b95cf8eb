package invoicing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// NextInvoiceNumber toma el máximo sufijo numérico de los números con prefijo INV-,
// le suma uno y rellena a 3 dígitos (crece naturalmente después de 999).
// Los números con sufijo no numérico se ignoran.
func NextInvoiceNumber(existing []string) string {
	maxN := 0
	for _, num := range existing {
		if !strings.HasPrefix(num, entity.InvoiceNumberPrefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(num, entity.InvoiceNumberPrefix))
		if err != nil || n < 0 {
			continue
		}
		if n > maxN {
			maxN = n
		}
	}
	return fmt.Sprintf("%s%03d", entity.InvoiceNumberPrefix, maxN+1)
}
