package cmd

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"metasecure-core/internal/notify"
	"metasecure-core/internal/service/mq"
	"metasecure-core/pkg/config"
	"metasecure-core/pkg/database"
	"metasecure-core/pkg/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Tail the notification stream",
	Long: `Consumes submission lifecycle events from the notification transport
(redis streams or kafka, per config) and prints them as they arrive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Init()
		logger.Init(config.Global.App.Env)
		defer logger.Sync()

		group, _ := cmd.Flags().GetString("group")

		var consumer mq.Consumer
		switch config.Global.Redis.MQType {
		case "kafka":
			consumer = mq.NewKafkaConsumer(config.Global.Kafka.Brokers, group)
		default:
			rc := config.Global.Redis
			rdb, err := database.ConnectRedis(rc.Addr, rc.Password, rc.DB)
			if err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			consumer = mq.NewRedisConsumer(rdb, group, "metasecure-cli")
		}
		defer consumer.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return consumer.Subscribe(ctx, config.Global.Notify.Topic, func(msg *mq.Message) error {
			var event notify.NoticeEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				fmt.Printf("[%s] %s\n", msg.ID, msg.Payload)
				return nil
			}
			ts := time.Unix(event.Timestamp, 0).Format("15:04:05")
			fmt.Printf("%s  %-8s #%d  %s\n", ts, event.Kind, event.Handle, event.Message)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("group", "metasecure-cli-watch", "consumer group name")
}
