package serve

import (
	cmdUtil "github.com/ValentinKolb/dynoKV/cmd/util"
	"github.com/ValentinKolb/dynoKV/lib/store/lstore"
	"github.com/ValentinKolb/dynoKV/rpc/common"
	"github.com/ValentinKolb/dynoKV/rpc/server"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"syscall"
)

var (
	Logger = logger.GetLogger("cmd")

	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start a dyno server",
		Long:    `Start a dyno server backed by a local versioned store. The configuration can be set via command line flags or environment variables. The format of the environment variables is DYNO_<flag> (e.g. DYNO_TIMEOUT=15)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:9191", cmdUtil.WrapString("The address on which the server will listen (e.g. localhost:9191, /tmp/dyno.sock, ...)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 60, cmdUtil.WrapString("Idle and write timeout of client connections in seconds (0 disables it)"))

	key = "workers"
	ServeCmd.PersistentFlags().Int(key, 1, cmdUtil.WrapString("Number of requests processed concurrently per connection"))

	key = "buffer-size"
	ServeCmd.PersistentFlags().Int(key, 64, cmdUtil.WrapString("The size of the frame buffers (in KB)"))

	key = "socket-write-buffer"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The size of the socket write buffer (in KB, 0 keeps the OS default)"))

	key = "socket-read-buffer"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The size of the socket read buffer (in KB, 0 keeps the OS default)"))

	key = "tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to enable TCP_NODELAY on accepted connections"))

	key = "tcp-keepalive"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The keepalive interval of accepted connections (in seconds)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address of the prometheus /metrics endpoint (e.g. localhost:9192), empty disables it"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Transport = common.ServerTransportConfig{
		Endpoint:       viper.GetString("endpoint"),
		BufferSize:     viper.GetInt("buffer-size") * 1024,
		WorkersPerConn: viper.GetInt("workers"),
		SocketConf: common.SocketConf{
			WriteBufferSize: viper.GetInt("socket-write-buffer") * 1024,
			ReadBufferSize:  viper.GetInt("socket-read-buffer") * 1024,
		},
		TCPConf: common.TCPConf{
			TCPNoDelay:      viper.GetBool("tcp-nodelay"),
			TCPKeepAliveSec: viper.GetInt("tcp-keepalive"),
		},
	}

	return common.InitLoggers(serveCmdConfig.LogLevel)
}

// run starts the dyno server and blocks until it receives SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	t, err := cmdUtil.GetServerTransport()
	if err != nil {
		return err
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
		server.NewStoreHandler(lstore.NewLocalStore()),
	)

	if err := serv.Bind(); err != nil {
		return err
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		Logger.Infof("Received %s, shutting down", sig)
		if err := serv.Close(); err != nil {
			Logger.Errorf("Failed to close server: %v", err)
		}
	}()

	return serv.Serve()
}
