// Product commands: list, get, add, update, delete and purge.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storekeeper/internal/inventory"
	"github.com/mesh-intelligence/storekeeper/internal/validate"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every product, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			products, err := a.svc.List()
			if err != nil {
				return storeError("list products", err)
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), products)
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return showProduct(cmd, a, id)
		},
	}
}

// showProduct reloads the product with id and prints it.
func showProduct(cmd *cobra.Command, a *app, id int64) error {
	p, err := a.svc.Get(id)
	if err != nil {
		return storeError("get product", err)
	}
	if flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), p)
	}
	printProduct(cmd.OutOrStdout(), p)
	return nil
}

// productFlags holds the raw text of the product flags shared by add and
// update.
type productFlags struct {
	name        string
	quantity    string
	price       string
	description string
	image       string
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name (2-100 characters)")
	cmd.Flags().StringVar(&f.quantity, "quantity", "", "quantity in stock (whole number, 0-1000000)")
	cmd.Flags().StringVar(&f.price, "price", "", "unit price (0-10000000, at most 2 decimal places)")
	cmd.Flags().StringVar(&f.description, "description", "", "optional description")
	cmd.Flags().StringVar(&f.image, "image", "", "image file to attach; empty removes the image")
}

// save validates form, attaches the image when imageSource is set, and
// creates or updates the product. Nothing is written when validation fails.
func save(a *app, id *int64, form inventory.Form, imageSource *string) (int64, error) {
	if errs := validate.ValidateProduct(form.Name, form.Quantity, form.Price); validate.HasErrors(errs) {
		return 0, userError(&inventory.ValidationError{Errors: errs})
	}
	if imageSource != nil {
		uri, err := a.images.Pick(*imageSource)
		if err != nil {
			return 0, userError(fmt.Errorf("attach image: %w", err))
		}
		form.ImageURI = uri
	}

	savedID, errs, err := a.svc.Save(id, form)
	if validate.HasErrors(errs) {
		return 0, userError(&inventory.ValidationError{Errors: errs})
	}
	if err != nil {
		return 0, storeError("save product", err)
	}
	return savedID, nil
}

func newAddCmd() *cobra.Command {
	var pf productFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Example: "  storekeeper add --name \"Desk Lamp\" --quantity 12 --price 24.99\n" +
			"  storekeeper add --name Mug --quantity 40 --price 6.5 --image ./mug.jpg",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			form := inventory.Form{
				Name:        pf.name,
				Quantity:    pf.quantity,
				Price:       pf.price,
				Description: pf.description,
			}
			var image *string
			if cmd.Flags().Changed("image") {
				image = &pf.image
			}

			id, err := save(a, nil, form, image)
			if err != nil {
				return err
			}
			return showProduct(cmd, a, id)
		},
	}
	pf.register(cmd)
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var pf productFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a product's fields",
		Long: "Update replaces the fields given as flags. Fields whose flag is not set\n" +
			"keep their current value. The id and creation time never change.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			current, err := a.svc.Get(id)
			if err != nil {
				return storeError("get product", err)
			}

			form := inventory.FormFor(current)
			changed := cmd.Flags().Changed
			if changed("name") {
				form.Name = pf.name
			}
			if changed("quantity") {
				form.Quantity = pf.quantity
			}
			if changed("price") {
				form.Price = pf.price
			}
			if changed("description") {
				form.Description = pf.description
			}
			var image *string
			if changed("image") {
				image = &pf.image
			}

			if _, err := save(a, &id, form, image); err != nil {
				return err
			}
			return showProduct(cmd, a, id)
		},
	}
	pf.register(cmd)
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Long:  "Delete removes the product permanently. Deleting an unknown id is not an error.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.svc.Delete(id)
			if err != nil {
				return storeError("delete product", err)
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{"id": id, "deleted": removed})
			}
			if removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted product %d\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No product with id %d\n", id)
			}
			return nil
		},
	}
}

func newPurgeCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return userError(errors.New("purge deletes every product; pass --yes to confirm"))
			}
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.svc.Reset()
			if err != nil {
				return storeError("purge products", err)
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"deleted": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d products\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting every product")
	return cmd
}
