// contactctl is a command line client for the contacts API.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/unclebandit/contacts-backend/internal/client"
	"github.com/unclebandit/contacts-backend/internal/model"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	api    string
	asJSON bool
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.api)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	defaultAPI := os.Getenv("CONTACTS_API_URL")
	if defaultAPI == "" {
		defaultAPI = client.DefaultBaseURL
	}

	root := &cobra.Command{
		Use:          "contactctl",
		Short:        "Manage contacts through the contacts API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.api, "api", defaultAPI, "API base URL (env CONTACTS_API_URL)")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print raw JSON")

	root.AddCommand(
		newListCmd(opts),
		newGetCmd(opts),
		newAddCmd(opts),
		newUpdateCmd(opts),
		newFavCmd(opts),
		newRmCmd(opts),
		newExportCmd(opts),
	)
	return root
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		search     string
		favourites bool
		page       int
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts, one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.client().FetchContacts(cmd.Context(), search, favourites, page, limit)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printContacts(cmd.OutOrStdout(), res.Data)
			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d contacts)\n", res.Page, res.TotalPages, res.Total)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive name filter")
	cmd.Flags().BoolVarP(&favourites, "favourites", "f", false, "only favourite contacts")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 10, "contacts per page")
	return cmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := opts.client().FetchContactByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printContact(cmd.OutOrStdout(), opts, c)
		},
	}
}

func bindInputFlags(cmd *cobra.Command, in *model.ContactInput) {
	cmd.Flags().StringVar(&in.Name, "name", "", "full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "10 digit phone number")
	cmd.Flags().StringVar(&in.Address, "address", "", "postal address")
	cmd.Flags().BoolVar(&in.Favourite, "favourite", false, "mark as favourite")
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var in model.ContactInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client().CreateContact(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printContact(cmd.OutOrStdout(), opts, c)
		},
	}
	bindInputFlags(cmd, &in)
	return cmd
}

// update starts from the stored contact and overrides only the flags given.
func newUpdateCmd(opts *rootOptions) *cobra.Command {
	var in model.ContactInput
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cl := opts.client()
			current, err := cl.FetchContactByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				current.Name = in.Name
			}
			if flags.Changed("email") {
				current.Email = in.Email
			}
			if flags.Changed("phone") {
				current.Phone = in.Phone
			}
			if flags.Changed("address") {
				current.Address = in.Address
			}
			if flags.Changed("favourite") {
				current.Favourite = in.Favourite
			}

			c, err := cl.UpdateContact(cmd.Context(), *current)
			if err != nil {
				return err
			}
			return printContact(cmd.OutOrStdout(), opts, c)
		},
	}
	bindInputFlags(cmd, &in)
	return cmd
}

func newFavCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fav ID",
		Short: "Toggle the favourite flag of a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cl := opts.client()
			current, err := cl.FetchContactByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			c, err := cl.ToggleFavourite(cmd.Context(), *current)
			if err != nil {
				return err
			}
			return printContact(cmd.OutOrStdout(), opts, c)
		},
	}
}

func newRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a contact",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			deleted, err := opts.client().DeleteContact(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted contact %d\n", deleted)
			return nil
		},
	}
}

// export writes every contact in the document form cmd/seeder reads.
func newExportCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all contacts as a seed document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, err := opts.client().ExportContacts(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return printJSON(w, model.ContactDocument{Contacts: all})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid contact id %q", s)
	}
	return id, nil
}

func printContact(w io.Writer, opts *rootOptions, c *model.Contact) error {
	if opts.asJSON {
		return printJSON(w, c)
	}
	printContacts(w, []model.Contact{*c})
	return nil
}

func printContacts(w io.Writer, contacts []model.Contact) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tFAV")
	for _, c := range contacts {
		fav := ""
		if c.Favourite {
			fav = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone, fav)
	}
	tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

