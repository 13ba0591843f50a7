package main

import (
	"log/slog"
	"strconv"

	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/mmuslimabdulj/roomchat/internal/logging"
	"github.com/mmuslimabdulj/roomchat/internal/storage"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type userRow struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	RoomID   uint64 `json:"room_id,omitempty"`
	Room     string `json:"room,omitempty"`
}

func newUsersCmd(opts *options) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Inspect users",
	}

	users.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every user and the room they are assigned to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *storage.Store) error {
				list, err := s.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				rooms, err := s.ListRooms(cmd.Context())
				if err != nil {
					return err
				}
				titles := lo.SliceToMap(rooms, func(r domain.Room) (uint64, string) {
					return r.ID, r.Title
				})

				rows := lo.Map(list, func(u domain.User, _ int) userRow {
					return userRow{ID: u.ID, Username: u.Username, RoomID: u.CurrentRoom(), Room: titles[u.CurrentRoom()]}
				})
				if opts.format == "json" {
					return writeJSON(cmd.OutOrStdout(), rows)
				}

				table := newTable(cmd.OutOrStdout(), []string{"ID", "Username", "Room"})
				for _, r := range rows {
					room := "-"
					if r.RoomID != 0 {
						room = strconv.FormatUint(r.RoomID, 10) + " " + r.Room
					}
					table.Append([]string{strconv.FormatUint(r.ID, 10), r.Username, room})
				}
				table.Render()
				return nil
			})
		},
	})

	return users
}

func discardLogger() *slog.Logger {
	return logging.New("silent", "text")
}
