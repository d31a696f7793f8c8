package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Romankivs/Lab1Istp/config"
	"github.com/Romankivs/Lab1Istp/database"
	"github.com/Romankivs/Lab1Istp/logger"
	"github.com/Romankivs/Lab1Istp/util/common"
	"github.com/Romankivs/Lab1Istp/web"
	"github.com/Romankivs/Lab1Istp/web/entity"
	"github.com/Romankivs/Lab1Istp/web/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func openDB() (*gorm.DB, error) {
	return database.Open(config.GetDatabaseConfig())
}

func runWebServer() {
	defer common.Recover("web server panic")
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	level, err := logger.ParseLevel(config.GetLogLevel())
	if err != nil {
		log.Fatal(err)
	}
	logger.InitLogger(level)
	defer logger.CloseLogger()

	db, err := openDB()
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warning("close database err:", err)
		}
	}()

	server := web.NewServer(db)
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer(db)
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func resetSetting() {
	db, err := openDB()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer database.Close(db)

	settingService := service.NewSettingService(db)
	if err := settingService.ResetSettings(); err != nil {
		fmt.Println("reset setting failed:", err)
	} else {
		fmt.Println("reset setting success")
	}
}

func showSetting() {
	db, err := openDB()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer database.Close(db)

	settingService := service.NewSettingService(db)
	all, err := settingService.GetAllSetting()
	if err != nil {
		fmt.Println("get current settings failed, error info:", err)
		return
	}
	fmt.Println("current panel settings as follows:")
	for _, key := range settingService.Keys() {
		if key == "secret" {
			continue
		}
		fmt.Printf("%s: %s\n", key, all[key])
	}

	n, err := service.NewStaffService(db).Count(context.Background())
	if err != nil {
		fmt.Println("count staff failed, error info:", err)
		return
	}
	fmt.Println("staff members:", n)
}

// settingUpdate holds the settings given on the command line. Nil paths
// are left unchanged; an empty path clears the setting.
type settingUpdate struct {
	port     int
	listen   string
	maxAge   int
	certFile *string
	keyFile  *string
}

func updateSetting(u settingUpdate) {
	db, err := openDB()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer database.Close(db)

	settingService := service.NewSettingService(db)
	port, listen, maxAge := u.port, u.listen, u.maxAge
	if port > 0 {
		if err := settingService.SetPort(port); err != nil {
			fmt.Println("set port failed:", err)
		} else {
			fmt.Printf("set port %v success\n", port)
		}
	}
	if listen != "" {
		if err := settingService.SetListen(listen); err != nil {
			fmt.Println("set listen failed:", err)
		} else {
			fmt.Printf("set listen %v success\n", listen)
		}
	}
	if maxAge > 0 {
		if err := settingService.SetSessionMaxAge(maxAge); err != nil {
			fmt.Println("set session max age failed:", err)
		} else {
			fmt.Printf("set session max age %v success\n", maxAge)
		}
	}
	if u.certFile != nil {
		if err := settingService.SetCertFile(*u.certFile); err != nil {
			fmt.Println("set certificate file failed:", err)
		} else {
			fmt.Printf("set certificate file %q success\n", *u.certFile)
		}
	}
	if u.keyFile != nil {
		if err := settingService.SetKeyFile(*u.keyFile); err != nil {
			fmt.Println("set key file failed:", err)
		} else {
			fmt.Printf("set key file %q success\n", *u.keyFile)
		}
	}
}

// changedString returns the flag value only when it was given.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func addStaff(email, name, password string) {
	db, err := openDB()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer database.Close(db)

	form := &entity.StaffForm{Email: email, Name: name, Password: password}
	staff, err := form.ToModel(nil)
	if err != nil {
		fmt.Println("add staff failed:", err)
		return
	}
	if err := service.NewStaffService(db).Create(context.Background(), staff); err != nil {
		fmt.Println("add staff failed:", err)
		return
	}
	fmt.Printf("staff member %s added with id %d\n", staff.Email, staff.Id)
}

func setStaffPassword(email, password string) {
	db, err := openDB()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer database.Close(db)

	if err := service.NewStaffService(db).SetPassword(context.Background(), email, password); err != nil {
		fmt.Println("set password failed:", err)
		return
	}
	fmt.Println("set password success")
}

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Println("load .env failed:", err)
	}

	var rootCmd = &cobra.Command{
		Use:     config.GetName(),
		Short:   "Car rental administration panel",
		Version: config.GetVersion(),
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "v", false, "show version")

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Set settings",
	}

	var resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Reset all settings",
		Run: func(cmd *cobra.Command, args []string) {
			resetSetting()
		},
	}

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Run: func(cmd *cobra.Command, args []string) {
			showSetting()
		},
	}

	var updateCmd = &cobra.Command{
		Use:   "update",
		Short: "Update settings",
		Run: func(cmd *cobra.Command, args []string) {
			port, _ := cmd.Flags().GetInt("port")
			listen, _ := cmd.Flags().GetString("listen")
			maxAge, _ := cmd.Flags().GetInt("session-max-age")
			updateSetting(settingUpdate{
				port:     port,
				listen:   listen,
				maxAge:   maxAge,
				certFile: changedString(cmd, "webCertFile"),
				keyFile:  changedString(cmd, "webKeyFile"),
			})
		},
	}

	updateCmd.Flags().Int("port", 0, "set panel port")
	updateCmd.Flags().String("listen", "", "set panel listen address")
	updateCmd.Flags().Int("session-max-age", 0, "set login session lifetime in minutes")
	updateCmd.Flags().String("webCertFile", "", "set TLS certificate file, empty to disable HTTPS")
	updateCmd.Flags().String("webKeyFile", "", "set TLS key file, empty to disable HTTPS")

	settingCmd.AddCommand(resetCmd, showCmd, updateCmd)

	var staffCmd = &cobra.Command{
		Use:   "staff",
		Short: "Manage staff accounts",
	}

	var staffAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Add a staff member",
		Run: func(cmd *cobra.Command, args []string) {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			password, _ := cmd.Flags().GetString("password")
			addStaff(email, name, password)
		},
	}
	staffAddCmd.Flags().String("email", "", "login email")
	staffAddCmd.Flags().String("name", "", "display name")
	staffAddCmd.Flags().String("password", "", "login password")
	_ = staffAddCmd.MarkFlagRequired("email")
	_ = staffAddCmd.MarkFlagRequired("name")
	_ = staffAddCmd.MarkFlagRequired("password")

	var staffPasswdCmd = &cobra.Command{
		Use:   "passwd",
		Short: "Change a staff member's password",
		Run: func(cmd *cobra.Command, args []string) {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			setStaffPassword(email, password)
		},
	}
	staffPasswdCmd.Flags().String("email", "", "login email")
	staffPasswdCmd.Flags().String("password", "", "new password")
	_ = staffPasswdCmd.MarkFlagRequired("email")
	_ = staffPasswdCmd.MarkFlagRequired("password")

	staffCmd.AddCommand(staffAddCmd, staffPasswdCmd)

	rootCmd.AddCommand(runCmd, settingCmd, staffCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
