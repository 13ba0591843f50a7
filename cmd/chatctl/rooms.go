package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/mmuslimabdulj/roomchat/internal/storage"
	"github.com/mmuslimabdulj/roomchat/internal/usecase"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newRoomsCmd(opts *options) *cobra.Command {
	rooms := &cobra.Command{
		Use:   "rooms",
		Short: "Manage rooms",
	}

	rooms.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *storage.Store) error {
				list, err := s.ListRooms(cmd.Context())
				if err != nil {
					return err
				}
				if opts.format == "json" {
					return writeJSON(cmd.OutOrStdout(), lo.Ternary(list == nil, []domain.Room{}, list))
				}

				table := newTable(cmd.OutOrStdout(), []string{"ID", "Title", "Created"})
				table.AppendBulk(lo.Map(list, func(r domain.Room, _ int) []string {
					return []string{strconv.FormatUint(r.ID, 10), r.Title, r.CreatedAt.Format(time.RFC3339)}
				}))
				table.Render()
				return nil
			})
		},
	})

	rooms.AddCommand(&cobra.Command{
		Use:   "create <title>",
		Short: "Create a room",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *storage.Store) error {
				svc := usecase.NewRoomService(s, s, nil, discardLogger())
				room, err := svc.Create(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				if opts.format == "json" {
					return writeJSON(cmd.OutOrStdout(), room)
				}
				cmd.Printf("created room %d %q\n", room.ID, room.Title)
				return nil
			})
		},
	})

	return rooms
}
