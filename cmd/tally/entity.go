// Generic entity commands over the games, players, and rosters tables.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pinebranch-games/tally/pkg/types"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <snowflake>",
		Short: "Get an entity by snowflake",
		Long: `Get retrieves an entity from the specified table by its snowflake.

Valid table names: ` + validTableNamesStr + `

Example:
  tally get games 0190cdd2-...
  tally get players 0190cdd3-...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWindow()
			if err != nil {
				fmt.Fprintln(os.Stderr, "get:", err)
				os.Exit(exitSysError)
			}
			defer w.close()

			entity, err := getEntity(w, args[0], args[1])
			if err != nil {
				if errors.Is(err, types.ErrNotFound) {
					return fmt.Errorf("entity %q not found in table %q", args[1], args[0])
				}
				return err
			}
			return printJSON(entity)
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <table> <json>",
		Short: "Create or update an entity in a table",
		Long: `Set creates an entity when the JSON omits a snowflake, and updates
the existing entity when it carries one.

Valid table names: ` + validTableNamesStr + `

Example:
  tally set games '{"Name":"Pinball Friday"}'
  tally set players '{"Snowflake":"0190cdd3-...","Name":"Ada"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWindow()
			if err != nil {
				fmt.Fprintln(os.Stderr, "set:", err)
				os.Exit(exitSysError)
			}
			defer w.close()

			entity, err := setEntity(w, args[0], []byte(args[1]))
			if err != nil {
				return err
			}
			return printJSON(entity)
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <snowflake>",
		Short: "Delete an entity by snowflake",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWindow()
			if err != nil {
				return err
			}
			defer w.close()

			if err := deleteEntity(w, args[0], args[1]); err != nil {
				if errors.Is(err, types.ErrNotFound) {
					return fmt.Errorf("entity %q not found in table %q", args[1], args[0])
				}
				return err
			}
			fmt.Println("deleted", args[1], "from", args[0])
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <table>",
		Short: "List every entity in a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWindow()
			if err != nil {
				return err
			}
			defer w.close()

			entities, err := listEntities(w, args[0])
			if err != nil {
				return err
			}
			return printJSON(entities)
		},
	}
}

func getEntity(w *window, tableName, snowflake string) (any, error) {
	switch tableName {
	case types.TableGames:
		return w.store.GetGame(snowflake)
	case types.TablePlayers:
		return w.store.GetPlayer(snowflake)
	case types.TableRosters:
		return w.store.GetRoster(snowflake)
	default:
		return nil, unknownTable(tableName)
	}
}

func setEntity(w *window, tableName string, payload []byte) (any, error) {
	switch tableName {
	case types.TableGames:
		var g types.Game
		if err := json.Unmarshal(payload, &g); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		if g.Snowflake == "" {
			return w.store.CreateGame(&g)
		}
		return w.store.UpdateGame(&g)
	case types.TablePlayers:
		var p types.Player
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		if p.Snowflake == "" {
			return w.store.CreatePlayer(&p)
		}
		return w.store.UpdatePlayer(&p)
	case types.TableRosters:
		var r types.Roster
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		if r.Snowflake == "" {
			return w.store.CreateRoster(&r)
		}
		return w.store.UpdateRoster(&r)
	default:
		return nil, unknownTable(tableName)
	}
}

func deleteEntity(w *window, tableName, snowflake string) error {
	switch tableName {
	case types.TableGames:
		return w.store.DeleteGame(snowflake)
	case types.TablePlayers:
		return w.store.DeletePlayer(snowflake)
	case types.TableRosters:
		return w.store.DeleteRoster(snowflake)
	default:
		return unknownTable(tableName)
	}
}

func listEntities(w *window, tableName string) (any, error) {
	switch tableName {
	case types.TableGames:
		return w.store.ListGames()
	case types.TablePlayers:
		return w.store.ListPlayers()
	case types.TableRosters:
		return w.store.ListRosters()
	default:
		return nil, unknownTable(tableName)
	}
}

func unknownTable(name string) error {
	return fmt.Errorf("%w: %q (valid: %s)", types.ErrTableNotFound, name, validTableNamesStr)
}
