// Package main provides the admin CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	"github.com/osa030/onair/internal/api/onairv1"
)

var (
	app      = kingpin.New("onair-admincli", "Radio station back-office client")
	server   = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token    = app.Flag("token", "Session token (or set ONAIR_TOKEN env)").Envar("ONAIR_TOKEN").String()
	page     = app.Flag("page", "Page number for listings").Default("1").Int()
	pageSize = app.Flag("page-size", "Page size for listings").Default("20").Int()

	// login command
	loginCmd      = app.Command("login", "Log in and print a session token")
	loginEmail    = loginCmd.Arg("email", "Login email").Required().String()
	loginPassword = loginCmd.Flag("password", "Password (or set ONAIR_ADMIN_PASSWORD env)").Envar("ONAIR_ADMIN_PASSWORD").Required().String()

	// logout command
	logoutCmd = app.Command("logout", "Revoke the session token")

	// me command
	meCmd = app.Command("me", "Show the logged-in user")

	// dashboard command
	dashboardCmd = app.Command("dashboard", "Show content counts")

	// list commands
	programsCmd       = app.Command("programs", "List programs")
	programsActive    = programsCmd.Flag("active", "Only active programs").Bool()
	podcastsCmd       = app.Command("podcasts", "List podcast episodes")
	podcastsPublished = podcastsCmd.Flag("published", "Only published episodes").Bool()
	podcastsProgram   = podcastsCmd.Flag("program", "Only episodes of this program ID").String()
	newsCmd           = app.Command("news", "List news articles")
	newsPublished     = newsCmd.Flag("published", "Only published articles").Bool()
	teamCmd           = app.Command("team", "List team members")
	teamActive        = teamCmd.Flag("active", "Only active members").Bool()

	// create/update/delete commands
	createCmd  = app.Command("create", "Create a record from a YAML or JSON file")
	createKind = createCmd.Arg("kind", "Record kind").Required().Enum(kinds...)
	createFile = createCmd.Arg("file", "Record file").Required().ExistingFile()
	updateCmd  = app.Command("update", "Replace a record from a YAML or JSON file")
	updateKind = updateCmd.Arg("kind", "Record kind").Required().Enum(kinds...)
	updateID   = updateCmd.Arg("id", "Record ID").Required().String()
	updateFile = updateCmd.Arg("file", "Record file").Required().ExistingFile()
	deleteCmd  = app.Command("delete", "Delete a record")
	deleteKind = deleteCmd.Arg("kind", "Record kind").Required().Enum(kinds...)
	deleteID   = deleteCmd.Arg("id", "Record ID").Required().String()

	// import command
	importCmd     = app.Command("import", "Import podcast episodes from a Spotify show")
	importShow    = importCmd.Arg("show", "Spotify show URL, URI or ID").Required().String()
	importProgram = importCmd.Flag("program", "Program ID of the imported episodes").String()
	importPublish = importCmd.Flag("publish", "Publish episodes at their release date").Bool()

	// inbox commands
	messagesCmd    = app.Command("messages", "List contact messages").Alias("inbox")
	messagesStatus = messagesCmd.Flag("status", "Only messages with this status").Enum("unread", "read", "archived")
	markCmd        = app.Command("mark", "Set the status of a contact message")
	markID         = markCmd.Arg("id", "Message ID").Required().String()
	markStatus     = markCmd.Arg("status", "New status").Required().Enum("unread", "read", "archived")
	watchCmd       = app.Command("watch", "Watch the inbox for new messages")

	// image commands
	uploadCmd      = app.Command("upload", "Upload an image")
	uploadFolder   = uploadCmd.Arg("folder", "Image folder").Required().Enum("programs", "podcasts", "news", "team")
	uploadFile     = uploadCmd.Arg("file", "Image file").Required().ExistingFile()
	deleteImageCmd = app.Command("delete-image", "Delete an uploaded image")
	deleteImageURL = deleteImageCmd.Arg("url", "Image URL").Required().String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx := context.Background()

	// Login is the only command that needs no token
	if command == loginCmd.FullCommand() {
		login(ctx)
		return
	}

	if *token == "" {
		fmt.Println("Error: session token is required (use --token or ONAIR_TOKEN env, see login)")
		os.Exit(1)
	}

	client := onairv1.NewAdminServiceClient(http.DefaultClient, *server, *token)
	pageReq := onairv1.PageRequest{Page: *page, PageSize: *pageSize}

	// Execute command
	var err error
	switch command {
	case logoutCmd.FullCommand():
		err = logout(ctx)
	case meCmd.FullCommand():
		err = me(ctx)
	case dashboardCmd.FullCommand():
		err = dashboard(ctx, client)
	case programsCmd.FullCommand():
		err = listPrograms(ctx, client, pageReq)
	case podcastsCmd.FullCommand():
		err = listPodcasts(ctx, client, pageReq)
	case newsCmd.FullCommand():
		err = listNews(ctx, client, pageReq)
	case teamCmd.FullCommand():
		err = listTeam(ctx, client)
	case createCmd.FullCommand():
		err = create(ctx, client, *createKind, *createFile)
	case updateCmd.FullCommand():
		err = update(ctx, client, *updateKind, *updateID, *updateFile)
	case deleteCmd.FullCommand():
		err = remove(ctx, client, *deleteKind, *deleteID)
	case importCmd.FullCommand():
		err = importPodcasts(ctx, client)
	case messagesCmd.FullCommand():
		err = listMessages(ctx, client, pageReq)
	case markCmd.FullCommand():
		err = mark(ctx, client)
	case watchCmd.FullCommand():
		err = watch(client)
	case uploadCmd.FullCommand():
		err = upload(ctx, client)
	case deleteImageCmd.FullCommand():
		_, err = client.DeleteImage(ctx, &onairv1.DeleteImageRequest{URL: *deleteImageURL})
		if err == nil {
			fmt.Println("Image deleted")
		}
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func login(ctx context.Context) {
	client := onairv1.NewAuthServiceClient(http.DefaultClient, *server)
	resp, err := client.Login(ctx, &onairv1.LoginRequest{Email: *loginEmail, Password: *loginPassword})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Logged in as %s (expires %s)\n", resp.Admin.Email, resp.ExpiresAt.Local().Format("2006-01-02 15:04"))
	fmt.Printf("export ONAIR_TOKEN=%s\n", resp.Token)
}

func logout(ctx context.Context) error {
	client := onairv1.NewAuthServiceClient(http.DefaultClient, *server)
	client.SetToken(*token)
	if _, err := client.Logout(ctx, &onairv1.LogoutRequest{}); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func me(ctx context.Context) error {
	client := onairv1.NewAuthServiceClient(http.DefaultClient, *server)
	client.SetToken(*token)
	resp, err := client.Me(ctx, &onairv1.MeRequest{})
	if err != nil {
		return err
	}
	fmt.Printf("ID: %s\n", resp.Admin.ID)
	fmt.Printf("Email: %s\n", resp.Admin.Email)
	fmt.Printf("Name: %s\n", resp.Admin.Name)
	fmt.Printf("Session expires: %s\n", resp.SessionExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func dashboard(ctx context.Context, client *onairv1.AdminServiceClient) error {
	d, err := client.GetDashboard(ctx, &onairv1.GetDashboardRequest{})
	if err != nil {
		return err
	}

	fmt.Println("\n=== DASHBOARD ===")
	fmt.Printf("Programs: %d (%d active)\n", d.Programs, d.ActivePrograms)
	fmt.Printf("Podcasts: %d (%d published)\n", d.Podcasts, d.PublishedPodcasts)
	fmt.Printf("Articles: %d (%d published)\n", d.Articles, d.PublishedArticles)
	fmt.Printf("Team members: %d\n", d.Members)
	fmt.Printf("Messages: %d (%d unread)\n", d.Messages, d.UnreadMessages)
	fmt.Printf("Inbox watchers: %d\n", d.InboxWatchers)
	fmt.Println()
	return nil
}

func importPodcasts(ctx context.Context, client *onairv1.AdminServiceClient) error {
	resp, err := client.ImportPodcasts(ctx, &onairv1.ImportPodcastsRequest{
		ShowURL:   *importShow,
		ProgramID: *importProgram,
		Publish:   *importPublish,
	})
	if err != nil {
		return err
	}

	for _, p := range resp.Imported {
		fmt.Printf("  + %s\n", podcastLine(p))
	}
	fmt.Printf("Imported %d episodes (%d already imported, %d without audio)\n", len(resp.Imported), resp.Skipped, resp.NoAudio)
	return nil
}

func listMessages(ctx context.Context, client *onairv1.AdminServiceClient, pageReq onairv1.PageRequest) error {
	resp, err := client.ListMessages(ctx, &onairv1.ListMessagesRequest{PageRequest: pageReq, Status: *messagesStatus})
	if err != nil {
		return err
	}

	fmt.Printf("\n=== INBOX (%d unread) ===\n", resp.UnreadCount)
	if len(resp.Messages) == 0 {
		fmt.Println("No messages")
	}
	for _, m := range resp.Messages {
		printMessage(m)
	}
	printPagination(resp.Pagination)
	return nil
}

func mark(ctx context.Context, client *onairv1.AdminServiceClient) error {
	resp, err := client.SetMessageStatus(ctx, &onairv1.SetMessageStatusRequest{ID: *markID, Status: *markStatus})
	if err != nil {
		return err
	}
	fmt.Printf("Message %s is now %s\n", resp.Message.ID, resp.Message.Status)
	return nil
}

func watch(client *onairv1.AdminServiceClient) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	stream, err := client.WatchInbox(ctx, &onairv1.WatchInboxRequest{})
	if err != nil {
		return err
	}
	defer stream.Close()

	fmt.Println("Watching inbox... (Ctrl+C to exit)")
	for stream.Receive() {
		e := stream.Msg()
		switch e.Type {
		case onairv1.InboxEventSnapshot:
			fmt.Printf("[%d] %d unread messages\n", e.SequenceNo, e.UnreadCount)
		case onairv1.InboxEventMessageReceived:
			fmt.Printf("[%d] New message (%d unread)\n", e.SequenceNo, e.UnreadCount)
			if e.Message != nil {
				printMessage(*e.Message)
			}
		case onairv1.InboxEventStatusChanged:
			fmt.Printf("[%d] Message %s changed status (%d unread)\n", e.SequenceNo, e.MessageID, e.UnreadCount)
		case onairv1.InboxEventMessageDeleted:
			fmt.Printf("[%d] Message %s deleted (%d unread)\n", e.SequenceNo, e.MessageID, e.UnreadCount)
		}
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	fmt.Println("\nStopped watching")
	return nil
}

func upload(ctx context.Context, client *onairv1.AdminServiceClient) error {
	data, err := os.ReadFile(*uploadFile)
	if err != nil {
		return err
	}

	resp, err := client.UploadImage(ctx, &onairv1.UploadImageRequest{
		Folder:   *uploadFolder,
		Filename: filepath.Base(*uploadFile),
		Data:     data,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded %s (%s, %d bytes)\n", resp.URL, resp.ContentType, resp.Size)
	return nil
}
