package server

import (
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/edisdb/edis/common"
	"github.com/edisdb/edis/lib/keyspace"
	"github.com/edisdb/edis/lib/store"
	"github.com/edisdb/edis/lib/store/pstore"
	rpccommon "github.com/edisdb/edis/rpc/common"
	"github.com/edisdb/edis/rpc/serializer"
	"github.com/edisdb/edis/rpc/transport"

	_ "net/http/pprof"
)

var Logger common.Logger = common.NewStdLogger("rpc", common.LevelInfo)

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config rpccommon.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	return rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
	}
}

type rpcServer struct {
	config     rpccommon.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	router     *keyspace.Router
	adapter    IRPCServerAdapter
}

func (s *rpcServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(shardId uint64, req []byte) []byte {
		var msg rpccommon.Message
		var respMsg rpccommon.Message

		actor, ok := s.router.Actor(int(shardId))
		if !ok {
			respMsg = rpccommon.Message{
				MsgType: rpccommon.MsgTError,
				Err:     fmt.Sprintf("shard %d not found", shardId),
			}
		} else {
			err := s.serializer.Deserialize(req, &msg)
			if err != nil {
				respMsg = rpccommon.Message{
					MsgType: rpccommon.MsgTError,
					Err:     fmt.Sprintf("failed to deserialize request: %s", err),
				}
			} else {
				respMsg = *s.adapter.Handle(&msg, actor)
			}
		}

		val, err := s.serializer.Serialize(respMsg)
		if err != nil {
			respMsg = rpccommon.Message{
				MsgType: rpccommon.MsgTError,
				Err:     fmt.Sprintf("failed to serialize response: %s", err),
			}
			val, _ = s.serializer.Serialize(respMsg)
		}
		return val
	})
}

func (s *rpcServer) init() error {
	timeout := time.Duration(s.config.TimeoutSecond) * time.Second

	keyspaceLog := common.NewStdLogger("keyspace", common.ParseLogLevel(s.config.LogLevel))
	opts := keyspace.DefaultActorOptions()
	opts.Log = keyspaceLog
	opts.Notifier = keyspace.NewLogNotifier(keyspaceLog)

	router, err := keyspace.NewRouter(s.config.DataDir, s.config.Databases, func() store.Engine { return pstore.New() }, opts)
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}
	s.router = router
	s.adapter = NewKeyspaceServerAdapter(timeout)

	Logger.Infof("edis setup completed successfully: %d databases under %s", s.config.Databases, s.config.DataDir)

	s.registerTransportHandler()

	return nil
}

// Serve starts the RPC server
// This function will also initialize the server plus the shards and start the transport layer
func (s *rpcServer) Serve() error {
	err := s.init()
	if err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}

// ServePprof exposes runtime profiling on a side port, unguarded by the
// RPC protocol - only meant for local debugging.
func ServePprof(addr string) {
	Logger.Infof("Starting pprof server on %s", addr)
	Logger.Infof("%v", http.ListenAndServe(addr, nil))
}
