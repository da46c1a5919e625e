package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// SendResult — результат одной отправки.
type SendResult struct {
	Attempt int    `json:"attempt"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewSendCmd создаёт команду отправки сообщения.
func NewSendCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Send a message to POST /log, optionally several times",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}

			client := clientFn()
			out := outputFn()

			results := make([]SendResult, 0, count)
			var failed int
			for i := 1; i <= count; i++ {
				res := SendResult{Attempt: i}

				resp, err := client.SendLog(cmd.Context(), args[0])
				if err != nil {
					failed++
					res.Error = err.Error()
				} else {
					res.OK = true
					res.Message = resp.Message
				}
				results = append(results, res)
			}

			rows := make([][]string, len(results))
			for i, r := range results {
				detail := r.Message
				if !r.OK {
					detail = r.Error
				}
				rows[i] = []string{strconv.Itoa(r.Attempt), strconv.FormatBool(r.OK), detail}
			}
			out.Print([]string{"ATTEMPT", "OK", "DETAIL"}, rows, results)

			if failed > 0 {
				return fmt.Errorf("%d of %d requests failed", failed, count)
			}
			out.Success(fmt.Sprintf("Sent %d message(s)", count))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "How many times to send the message")

	return cmd
}
