package commands

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperrors "lumen/internal/errors"
	"lumen/internal/models"
	"lumen/internal/services"
)

func newLoginCmd(rt *runtime) *cobra.Command {
	var email, password, userType string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend",
		Long: `Sign in and keep the session in the local store.

The password is read from the first line of stdin when --password is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}
			if password == "" {
				if password, err = readLine(cmd); err != nil {
					return err
				}
			}
			snap, err := a.Auth.Login(cmd.Context(), models.LoginRequest{
				Email:    email,
				Password: password,
				UserType: models.UserType(userType),
			})
			if err != nil {
				return err
			}
			return rt.emit(snap, func() error {
				rt.printer.Success("Signed in as %s (%s)", snap.DisplayName, snap.UserType)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&userType, "type", string(models.UserTypeConsumer), "account type: consumer or business")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(rt *runtime) *cobra.Command {
	var (
		req        models.RegisterRequest
		userType   string
		avatarPath string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}
			req.UserType = models.UserType(userType)
			if req.Password == "" {
				if req.Password, err = readLine(cmd); err != nil {
					return err
				}
			}

			var avatar *services.Avatar
			if avatarPath != "" {
				f, err := os.Open(avatarPath)
				if err != nil {
					return apperrors.WithMessage(apperrors.ErrInvalidInput, "Cannot read avatar: "+err.Error())
				}
				defer f.Close()
				avatar = &services.Avatar{Filename: filepath.Base(avatarPath), Content: f}
			}

			snap, err := a.Auth.Register(cmd.Context(), req, avatar)
			if err != nil {
				return err
			}
			return rt.emit(snap, func() error {
				rt.printer.Success("Welcome, %s! Your %s account is ready.", snap.DisplayName, snap.UserType)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Email, "email", "", "account email")
	f.StringVar(&req.Password, "password", "", "account password, at least 8 characters")
	f.StringVar(&req.Name, "name", "", "full name")
	f.StringVar(&userType, "type", string(models.UserTypeConsumer), "account type: consumer or business")
	f.StringVar(&req.Phone, "phone", "", "phone number")
	f.StringVar(&req.BusinessName, "business-name", "", "business name (business accounts)")
	f.StringVar(&req.ContactPerson, "contact-person", "", "contact person (business accounts)")
	f.StringVar(&req.GSTIN, "gstin", "", "GST identification number")
	f.StringVar(&avatarPath, "avatar", "", "profile picture to upload")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}
			if err := a.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			rt.printer.Success("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}
			snap := a.Sessions.Snapshot()
			return rt.emit(snap, func() error {
				if !snap.IsAuthenticated {
					rt.printer.Print("Not logged in")
					return nil
				}
				rt.printer.Print("%s <%s>", rt.printer.Bold(snap.DisplayName), snap.Email)
				rt.printer.Print("%s", rt.printer.Dim("user "+snap.UserID+", "+string(snap.UserType)+" account"))
				return nil
			})
		},
	}
}

func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" && err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Password is required")
	}
	return line, nil
}
