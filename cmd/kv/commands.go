package kv

import (
	"fmt"
	"strconv"

	core "github.com/edisdb/edis/common"
	"github.com/spf13/cobra"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := kvClient.Set(args[0], []byte(args[1])); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}

	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := kvClient.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%v, value=%s\n", args[0], value != nil, value)
			return nil
		},
	}

	delCmd = &cobra.Command{
		Use:   "del [key...]",
		Short: "Deletes one or more keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := kvClient.Del(args...)
			if err != nil {
				return err
			}
			fmt.Printf("deleted %d key(s)\n", n)
			return nil
		},
	}

	existsCmd = &cobra.Command{
		Use:   "exists [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := kvClient.Exists(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%t\n", args[0], found)
			return nil
		},
	}

	exprCmd = &cobra.Command{
		Use:   "expire [key] [seconds]",
		Short: "Sets a key's remaining lifetime in seconds",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("seconds must be a number: %w", err)
			}
			ok, err := kvClient.Expire(args[0], seconds)
			if err != nil {
				return err
			}
			fmt.Printf("affected=%t\n", ok)
			return nil
		},
	}

	pingCmd = &cobra.Command{
		Use:   "ping",
		Short: "Pings the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := kvClient.Ping()
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", resp)
			return nil
		},
	}

	doCmd = &cobra.Command{
		Use:   "do [command] [arg...]",
		Short: "Sends an arbitrary command to the shard (e.g. HSET, LPUSH, ZADD, SADD)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdArgs := make([][]byte, len(args)-1)
			for i, a := range args[1:] {
				cmdArgs[i] = []byte(a)
			}

			res, err := kvClient.Do(core.Command{Cmd: args[0], Args: cmdArgs})
			if err != nil {
				return err
			}
			if res.IsError() {
				return fmt.Errorf("%s: %s", res.ErrKind, res.ErrMsg)
			}

			fmt.Printf("%v\n", res.Value)
			return nil
		},
	}
)
