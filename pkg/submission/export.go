package submission

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/pkg/errors"
)

// ExportCSV writes every response of a form as CSV: a "Submitted At" column
// followed by one column per input field, formatted like a spreadsheet row.
func (s *Service) ExportCSV(ctx context.Context, formID string, w io.Writer) error {
	form, err := s.forms.GetForm(ctx, formID)
	if err != nil {
		return err
	}
	responses, err := s.responses.ListResponses(ctx, formID)
	if err != nil {
		return err
	}

	columns := make([]models.FieldDefinition, 0, len(form.Fields))
	header := []string{"Submitted At"}
	for _, f := range form.Fields {
		if f.Type.IsLayout() {
			continue
		}
		columns = append(columns, f)
		header = append(header, f.Label)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "error writing csv header")
	}
	for _, r := range responses {
		row := make([]string, 0, len(header))
		row = append(row, r.SubmittedAt)
		for _, f := range columns {
			row = append(row, models.FormatValue(r.Data[f.ID]))
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "error writing response %s", r.ID)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "error writing csv")
}
