package cmd

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tracker/internal/apihandlers"
)

var (
	serveAddr string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tracker HTTP API server",
	Long: `Starts an HTTP server exposing the tracker over a RESTful API:
issues, comments, labels, classification, duplicate detection and statistics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		// Flags win over config when set explicitly.
		if !cmd.Flags().Changed("addr") && appInstance.Config.Server.Addr != "" {
			serveAddr = appInstance.Config.Server.Addr
		}
		if !cmd.Flags().Changed("port") && appInstance.Config.Server.Port != "" {
			servePort = appInstance.Config.Server.Port
		}

		router := gin.Default()
		router.Use(apihandlers.RequestID())
		router.Use(appInstance.Metrics.GinMiddleware("tracker-api"))

		apiHandler := apihandlers.NewAPIHandler(appInstance)

		v1 := router.Group("/api/v1")
		{
			issues := v1.Group("/issues")
			{
				issues.POST("", apiHandler.CreateIssueHandler)
				issues.GET("", apiHandler.ListIssuesHandler)
				issues.GET("/export", apiHandler.ExportIssuesHandler)
				issues.GET("/:id", apiHandler.GetIssueHandler)
				issues.PATCH("/:id", apiHandler.UpdateIssueHandler)
				issues.DELETE("/:id", apiHandler.DeleteIssueHandler)

				issues.POST("/:id/comments", apiHandler.AddCommentHandler)
				issues.GET("/:id/comments", apiHandler.ListCommentsHandler)
				issues.GET("/:id/activity", apiHandler.ListActivityHandler)

				issues.PUT("/:id/labels/:name", apiHandler.AttachLabelHandler)
				issues.DELETE("/:id/labels/:name", apiHandler.DetachLabelHandler)

				issues.POST("/:id/watchers", apiHandler.AddWatcherHandler)
				issues.DELETE("/:id/watchers/:userID", apiHandler.RemoveWatcherHandler)
			}

			labels := v1.Group("/labels")
			{
				labels.POST("", apiHandler.CreateLabelHandler)
				labels.GET("", apiHandler.ListLabelsHandler)
			}

			users := v1.Group("/users")
			{
				users.POST("", apiHandler.CreateUserHandler)
				users.GET("/:id", apiHandler.GetUserHandler)
				users.GET("/:id/notifications", apiHandler.ListNotificationsHandler)
				users.GET("/:id/stats", apiHandler.UserStatisticsHandler)
			}

			v1.POST("/notifications/:id/read", apiHandler.MarkNotificationReadHandler)

			v1.POST("/classify", apiHandler.ClassifyHandler)
			v1.POST("/duplicates", apiHandler.FindDuplicatesHandler)
			v1.GET("/stats", apiHandler.IssueStatisticsHandler)
		}

		router.GET("/health", func(c *gin.Context) {
			if err := appInstance.PrimaryStore.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		router.GET("/metrics", gin.WrapH(appInstance.Metrics.Handler()))

		listenAddr := fmt.Sprintf("%s:%s", serveAddr, servePort)
		log.Infof("Starting tracker API server on http://%s", listenAddr)

		if err := router.Run(listenAddr); err != nil {
			return fmt.Errorf("failed to run API server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost", "Address to listen on (e.g., '0.0.0.0' for all interfaces)")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")
}
