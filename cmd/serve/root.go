package serve

import (
	"fmt"
	"strings"

	cmdUtil "github.com/edisdb/edis/cmd/util"
	"github.com/edisdb/edis/rpc/common"
	"github.com/edisdb/edis/rpc/serializer"
	"github.com/edisdb/edis/rpc/server"
	"github.com/edisdb/edis/rpc/transport"
	"github.com/edisdb/edis/rpc/transport/http"
	"github.com/edisdb/edis/rpc/transport/tcp"
	"github.com/edisdb/edis/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the edis server",
		Long:    `Start the edis server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is EDIS_<flag> (e.g. EDIS_TIMEOUT=15)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "databases"
	ServeCmd.PersistentFlags().Int(key, 16, cmdUtil.WrapString("Number of keyspace shards this process routes requests across"))

	key = "data-dir"
	ServeCmd.PersistentFlags().String(key, "data", cmdUtil.WrapString("Directory each shard's store opens a subdirectory under"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Timeout in seconds a request may sit queued before the transport gives up on it"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8080, /tmp/edis.sock, ...)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("The level at which logs will be output (debug, info, warn, error)"))

	key = "tcp-write-buffer"
	ServeCmd.PersistentFlags().Int(key, 512, cmdUtil.WrapString("Socket write buffer size for the tcp transport (in KB)"))

	key = "tcp-read-buffer"
	ServeCmd.PersistentFlags().Int(key, 512, cmdUtil.WrapString("Socket read buffer size for the tcp transport (in KB)"))

	key = "tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to enable TCP_NODELAY for the tcp transport"))

	key = "tcp-keepalive"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Keepalive interval for the tcp transport (in seconds, 0 disables it)"))

	key = "tcp-linger"
	ServeCmd.PersistentFlags().Int(key, -1, cmdUtil.WrapString("Linger time for the tcp transport (in seconds, negative uses OS default)"))

	key = "pprof-addr"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("If set, expose net/http/pprof on this address (local debugging only)"))
}

// processConfig reads the configuration from the command line flags and
// environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	databases := viper.GetInt("databases")
	if databases <= 0 {
		return fmt.Errorf("databases must be positive, got %d", databases)
	}

	endpoint := viper.GetString("endpoint")

	serveCmdConfig.Databases = databases
	serveCmdConfig.DataDir = viper.GetString("data-dir")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.Endpoint = endpoint
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Transport = common.ServerTransportConfig{
		Endpoint:        endpoint,
		TCPNoDelay:      viper.GetBool("tcp-nodelay"),
		WriteBufferSize: viper.GetInt("tcp-write-buffer") * 1024,
		ReadBufferSize:  viper.GetInt("tcp-read-buffer") * 1024,
		TCPKeepAliveSec: viper.GetInt("tcp-keepalive"),
		TCPLingerSec:    viper.GetInt("tcp-linger"),
	}

	return nil
}

// run starts the edis server
func run(_ *cobra.Command, _ []string) error {
	// parse the serializer
	var s serializer.IRPCSerializer
	switch viper.GetString("serializer") {
	case "json":
		s = serializer.NewJSONSerializer()
	case "gob":
		s = serializer.NewGOBSerializer()
	case "binary":
		s = serializer.NewBinarySerializer()
	default:
		return fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}

	// parse the transport
	var t transport.IRPCServerTransport
	switch viper.GetString("transport") {
	case "http":
		t = http.NewHttpServerTransport()
	case "tcp":
		t = tcp.NewTCPServerTransport()
	case "unix":
		t = unix.NewUnixDefaultServerTransport()
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	if addr := viper.GetString("pprof-addr"); addr != "" {
		go server.ServePprof(addr)
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	return serv.Serve()
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("edis")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
