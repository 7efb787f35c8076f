package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	apperrors "lumen/internal/errors"
	"lumen/internal/upload"
)

func newUploadCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a receipt, invoice or statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "Cannot read "+args[0]+": "+err.Error())
			}

			a.Coordinator.Open()
			a.Modal.Select(upload.File{Name: filepath.Base(args[0]), Data: data})
			res, err := a.Modal.Submit(cmd.Context())
			a.Modal.Dismiss()
			if err != nil {
				return err
			}
			return rt.emit(res, func() error {
				if res.OCRConfidence > 0 {
					rt.printer.Print("%s", rt.printer.Dim("OCR confidence "+formatPercent(res.OCRConfidence)))
				}
				return nil
			})
		},
	}
}
