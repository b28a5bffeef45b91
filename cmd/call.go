package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"labshare_dao/ledger"
	"labshare_dao/sdk"
)

var callFlags struct {
	sender  string
	objects string
	limit   uint64
	query   bool
}

func init() {
	callCmd.Flags().StringVar(&callFlags.sender, "sender", "", "signer address (required for transactions)")
	callCmd.Flags().StringVar(&callFlags.objects, "objects", "", "comma separated object ids the call names")
	callCmd.Flags().Uint64Var(&callFlags.limit, "limit", 0, "attach a transfer.allow intent with this limit")
	callCmd.Flags().BoolVar(&callFlags.query, "query", false, "run a read-only getter instead of a transaction")
	rootCmd.AddCommand(callCmd)
}

var callCmd = &cobra.Command{
	Use:   "call <action> [payload]",
	Short: "Execute one entrypoint against the configured store and print the result",
	Example: `  labshare call dao.initialize "LabDAO|cold chain|0" --sender 0xa1
  labshare call dao.info 0x5f... --objects 0x5f... --query`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		objects, err := parseObjectList(callFlags.objects)
		if err != nil {
			return err
		}
		payload := ""
		if len(args) == 2 {
			payload = args[1]
		}

		l, err := openLedger(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer l.Close()

		out := cmd.OutOrStdout()
		if callFlags.query {
			ret, err := l.Query(cmd.Context(), ledger.QueryRequest{Action: args[0], Objects: objects, Payload: payload})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ret)
			return nil
		}

		sender, ok := sdk.ParseAddress(callFlags.sender)
		if !ok {
			return fmt.Errorf("--sender: %w", ledger.ErrInvalidSender)
		}
		req := ledger.TxRequest{Sender: sender, Action: args[0], Objects: objects, Payload: payload}
		if callFlags.limit > 0 {
			req.Intents = []sdk.Intent{sdk.TransferIntent(callFlags.limit)}
		}
		res, err := l.Execute(cmd.Context(), req)
		if err != nil {
			return err
		}
		raw, err := res.MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(raw))
		if !res.Success {
			return res.Abort
		}
		return nil
	},
}

func parseObjectList(s string) ([]sdk.ObjectID, error) {
	var ids []sdk.ObjectID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, ok := sdk.ParseObjectID(part)
		if !ok {
			return nil, fmt.Errorf("invalid object id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
