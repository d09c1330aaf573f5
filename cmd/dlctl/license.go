package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"driver-license-portal/internal/adapter/repository/gormstore"
	"driver-license-portal/internal/domain/qrcode"
	"driver-license-portal/internal/usecase/license"
)

func licenseCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Inspect issued licenses",
	}
	cmd.AddCommand(licenseVerifyCmd(e), licenseQRCmd(e))
	return cmd
}

func licenseVerifyCmd(e *env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "verify [license-number]",
		Short: "Check whether a license is currently valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := e.open()
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			uc := license.NewUsecase(gormstore.NewQRCodeRepository(gdb), gormstore.NewApplicationRepository(gdb),
				gormstore.NewAuditRepository(gdb), nil, e.cfg.AppURL, e.log)
			res, err := uc.Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"valid": res.Valid, "expired": res.Expired, "license": res.License, "message": res.Message,
				})
			}
			l := res.License
			fmt.Fprintf(out, "%s\n", res.Message)
			fmt.Fprintf(out, "  number:  %s\n  holder:  %s\n  type:    %s\n  issued:  %s\n  expires: %s\n  status:  %s\n",
				l.LicenseNumber, l.HolderName, l.LicenseType, l.IssuedDate, l.ExpiryDate, l.Status)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "print the result as JSON")
	return cmd
}

func licenseQRCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "qr [license-number]",
		Short: "Render a license's verification link as a terminal QR code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := e.open()
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			q, err := gormstore.NewQRCodeRepository(gdb).GetByLicenseNumber(cmd.Context(), args[0])
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return qrcode.ErrNotFound
			}
			if err != nil {
				return err
			}
			url := license.VerificationURL(e.cfg.AppURL, q.LicenseNumber)
			out := cmd.OutOrStdout()
			qrterminal.GenerateHalfBlock(url, qrterminal.L, out)
			fmt.Fprintln(out, url)
			return nil
		},
	}
}
