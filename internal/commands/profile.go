package commands

import (
	"github.com/spf13/cobra"

	"lumen/internal/models"
	"lumen/internal/output"
)

func newProfileCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showProfile(cmd, rt)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show your profile",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return showProfile(cmd, rt)
			},
		},
		newProfileUpdateCmd(rt),
		newProfileConsentCmd(rt),
	)
	return cmd
}

func showProfile(cmd *cobra.Command, rt *runtime) error {
	a, err := rt.session()
	if err != nil {
		return err
	}
	p, err := a.Profiles.Get(cmd.Context())
	if err != nil {
		return err
	}
	return rt.emit(p, func() error {
		printProfile(rt.printer, p)
		return nil
	})
}

func printProfile(pr *output.Printer, p *models.Profile) {
	pr.Header(p.Name)
	rows := [][2]string{
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Location", p.Location},
		{"Timezone", p.Timezone},
		{"Locale", p.Locale},
		{"Currency", p.Currency},
		{"Business", p.BusinessName},
		{"Contact", p.ContactPerson},
		{"GSTIN", p.GSTIN},
		{"Member since", output.Date(p.CreatedAt)},
	}
	for _, r := range rows {
		if r[1] != "" {
			pr.Print("%-13s %s", r[0], r[1])
		}
	}
	pr.Print("%-13s gmail=%t whatsapp=%t upi=%t sms=%t", "Consents",
		p.ConsentGmailIngest, p.ConsentWhatsappIngest, p.ConsentUPIIngest, p.ConsentSMSIngest)
}

func newProfileUpdateCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields; only the flags you pass are sent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session()
			if err != nil {
				return err
			}
			f := cmd.Flags()
			var update models.ProfileUpdate
			for flag, dst := range map[string]**string{
				"name":           &update.Name,
				"phone":          &update.Phone,
				"location":       &update.Location,
				"avatar-url":     &update.AvatarURL,
				"timezone":       &update.Timezone,
				"locale":         &update.Locale,
				"currency":       &update.Currency,
				"business-name":  &update.BusinessName,
				"contact-person": &update.ContactPerson,
				"gstin":          &update.GSTIN,
				"business-type":  &update.BusinessType,
			} {
				if f.Changed(flag) {
					val, _ := f.GetString(flag)
					*dst = &val
				}
			}

			p, err := a.Profiles.Update(cmd.Context(), update)
			if err != nil {
				return err
			}
			return rt.emit(p, func() error {
				rt.printer.Success("Profile updated")
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.String("name", "", "full name")
	f.String("phone", "", "phone number")
	f.String("location", "", "city or region")
	f.String("avatar-url", "", "avatar URL")
	f.String("timezone", "", "IANA timezone, e.g. Asia/Kolkata")
	f.String("locale", "", "BCP 47 language tag, e.g. en-IN")
	f.String("currency", "", "ISO 4217 currency code")
	f.String("business-name", "", "business name")
	f.String("contact-person", "", "contact person")
	f.String("gstin", "", "GST identification number")
	f.String("business-type", "", "kind of business")
	return cmd
}

func newProfileConsentCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consent",
		Short: "Allow or revoke ingestion from each source",
		Long: `Allow or revoke ingestion from each source. Only the flags you pass change.

Example:
  lumen profile consent --gmail=true --sms=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session()
			if err != nil {
				return err
			}
			f := cmd.Flags()
			var update models.ConsentUpdate
			for flag, dst := range map[string]**bool{
				"gmail":    &update.Gmail,
				"whatsapp": &update.Whatsapp,
				"upi":      &update.UPI,
				"sms":      &update.SMS,
			} {
				if f.Changed(flag) {
					val, _ := f.GetBool(flag)
					*dst = &val
				}
			}

			p, err := a.Profiles.UpdateConsent(cmd.Context(), update)
			if err != nil {
				return err
			}
			return rt.emit(p, func() error {
				rt.printer.Success("Consents updated: gmail=%t whatsapp=%t upi=%t sms=%t",
					p.ConsentGmailIngest, p.ConsentWhatsappIngest, p.ConsentUPIIngest, p.ConsentSMSIngest)
				return nil
			})
		},
	}
	for _, src := range []string{"gmail", "whatsapp", "upi", "sms"} {
		cmd.Flags().Bool(src, false, "allow "+src+" ingestion")
	}
	return cmd
}
