package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewCountsCmd создаёт команду просмотра счётчиков сообщений.
func NewCountsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Show message_count_total per message content",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			counts, err := client.MessageCounts(cmd.Context())
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("content") {
				filtered := counts[:0]
				for _, c := range counts {
					if c.Content == content {
						filtered = append(filtered, c)
					}
				}
				counts = filtered
			}

			rows := make([][]string, len(counts))
			for i, c := range counts {
				rows[i] = []string{c.Content, strconv.FormatFloat(c.Count, 'f', -1, 64)}
			}

			out.Print([]string{"CONTENT", "COUNT"}, rows, counts)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "Only show this exact content")

	return cmd
}
