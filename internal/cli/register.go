package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmachado/fleet-manager/internal/domain"
	"github.com/rmachado/fleet-manager/internal/service"
)

func newRegisterCmd() *cobra.Command {
	var in service.RegisterInput
	var role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Long: "Register a new account. Operator accounts with a CPF get a " +
			"linked driver record created automatically.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Role = domain.Role(role)
			user, err := client.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Account %s created; run fleetctl login\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "Password (minimum 6 characters)")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleOperator), "Role (MANAGER or OPERATOR)")
	cmd.Flags().StringVar(&in.CPF, "cpf", "", "CPF (operators only; seeds the driver record)")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}
