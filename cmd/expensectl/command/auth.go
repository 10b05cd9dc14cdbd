package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baechuer/expense-web/internal/session"
)

var errEmptyPassword = errors.New("password is required")

func (a *app) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "log in and store the session token",
		Args:  cobra.ExactArgs(1),
		RunE: traced(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Contraseña: ")
				var err error
				if password, err = readLine(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			if password == "" {
				return errEmptyPassword
			}

			if err := a.sess.Login(ctx, username, password); err != nil {
				if errors.Is(err, session.ErrLoginFailed) {
					return fmt.Errorf("credenciales inválidas: %w", err)
				}
				return err
			}

			name := username
			if claims, err := a.sess.CurrentUser(); err == nil && claims.DisplayName() != "" {
				name = claims.DisplayName()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sesión iniciada como %s\n", name)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted on stdin when empty)")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "drop the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sess.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "whoami",
		Short:       "show the identity of the stored token",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotAuth: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			claims, err := a.sess.CurrentUser()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Usuario:  %s\n", claims.Subject)
			if name := claims.DisplayName(); name != "" {
				fmt.Fprintf(out, "Nombre:   %s\n", name)
			}
			fmt.Fprintf(out, "Roles:    %s\n", strings.Join(claims.Role.Roles(), ", "))
			fmt.Fprintf(out, "Expira:   %s\n", claims.ExpiresTime().Format("02/01/2006 15:04"))
			return nil
		},
	}
}
