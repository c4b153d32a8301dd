package add

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"mongovault/client/internal/api"
	"mongovault/client/internal/cmdutil"
)

func NewAddConnectionCmd() *cobra.Command {
	var name string
	var safe bool
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Register a MongoDB connection",
		Long:    "Register a MongoDB connection string. The connection string is prompted for so it never lands in shell history, and it is stored encrypted on the server.",
		Example: "mongovault connections add --name production --safe",
		Run: func(cmd *cobra.Command, args []string) {
			if name == "" {
				cmdutil.PrintE("Please specify a connection name")
				return
			}

			prompt := promptui.Prompt{
				Label: "MongoDB connection string",
				Mask:  '*',
				Validate: func(input string) error {
					if !strings.HasPrefix(input, "mongodb") {
						return errors.New("connection string must start with mongodb")
					}
					return nil
				},
			}
			uri, err := prompt.Run()
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			svc, err := cmdutil.Service()
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			cmdutil.StartLoading("Working...")
			defer cmdutil.StopLoading()

			conn, err := svc.CreateConnection(cmd.Context(), api.CreateConnectionParams{
				Name: name,
				URI:  uri,
				Safe: safe,
			})
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			cmdutil.PrintS("Connection registered: " + conn.ID.String())
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the connection")
	cmd.Flags().BoolVar(&safe, "safe", false, "Allow organization members to use this connection")
	return cmd
}
