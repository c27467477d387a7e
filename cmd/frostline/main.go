// Command frostline is a thin command-line front end for the toolkit: it signs
// a Microsoft account into Minecraft and manages local game instances.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/frostline-mc/frostline/internal/auth"
	"github.com/frostline-mc/frostline/internal/auth/minecraft"
	"github.com/frostline-mc/frostline/internal/auth/msa"
	"github.com/frostline-mc/frostline/internal/auth/xbox"
	"github.com/frostline-mc/frostline/internal/buildinfo"
	"github.com/frostline-mc/frostline/internal/config"
	"github.com/frostline-mc/frostline/internal/instance"
	"github.com/frostline-mc/frostline/internal/logging"
)

func main() {
	// A .env next to the binary may carry FROSTLINE_CLIENT_ID during development.
	_ = godotenv.Load()

	var (
		configPath   = flag.String("config", "frostline.yaml", "path to the configuration file")
		login        = flag.Bool("login", false, "sign in to a Microsoft account and print the Minecraft profile")
		logout       = flag.Bool("logout", false, "discard the cached Microsoft token")
		noBrowser    = flag.Bool("no-browser", false, "do not open a browser; print the sign-in URL instead")
		callbackPort = flag.Int("oauth-callback-port", 0, "override the local OAuth callback port")
		list         = flag.Bool("list", false, "list known instances")
		createName   = flag.String("create", "", "create an instance with the given name")
		addMod       = flag.String("add-mod", "", "add a mod to an instance, formatted name@version")
		instName     = flag.String("instance", "", "instance name for -add-mod")
		modFile      = flag.String("mod-file", "", "mod jar file name for -add-mod")
		version      = flag.Bool("version", false, "print version information")
	)
	flag.Parse()

	if *version {
		fmt.Printf("frostline %s (commit %s, built %s)\n", buildinfo.Version, buildinfo.Commit, buildinfo.BuildDate)
		return
	}

	cfg, err := config.LoadConfigOptional(*configPath, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "frostline: %v\n", err)
		os.Exit(1)
	}
	if *callbackPort > 0 {
		cfg.Auth.CallbackPort = *callbackPort
	}
	if cfg.Auth.ClientID == "" {
		cfg.Auth.ClientID = os.Getenv("FROSTLINE_CLIENT_ID")
	}

	logging.SetupBaseLogger()
	if err = logging.ConfigureLogOutput(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "frostline: %v\n", err)
		os.Exit(1)
	}

	store, err := instance.NewStore(cfg.InstancesDir)
	if err != nil {
		log.Fatalf("opening instance store: %v", err)
	}
	if err = store.LoadAll(); err != nil {
		log.Fatalf("loading instances: %v", err)
	}

	switch {
	case *login:
		err = runLogin(cfg, *noBrowser)
	case *logout:
		err = msa.NewTokenCache(cfg.Auth.CacheFile).Clear()
		if err == nil {
			log.Info("cached credentials removed")
		}
	case *createName != "":
		err = runCreate(store, *createName)
	case *addMod != "":
		err = runAddMod(store, *instName, *addMod, *modFile)
	case *list:
		runList(store)
	default:
		flag.Usage()
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// runLogin walks the full authentication chain, then verifies ownership and
// prints the player profile.
func runLogin(cfg *config.Config, noBrowser bool) error {
	if cfg.Auth.ClientID == "" {
		return fmt.Errorf("no client-id configured; set auth.client-id in %s or FROSTLINE_CLIENT_ID", "frostline.yaml")
	}

	cache := msa.NewTokenCache(cfg.Auth.CacheFile)
	msAuth := msa.NewMicrosoftAuth(cfg.Auth.ClientID, cfg.RedirectURI(), cache)
	xboxAuth := xbox.NewXboxAuth()
	mcAuth := minecraft.NewMinecraftAuth()
	granter := &auth.BrowserGranter{
		Port:      cfg.Auth.CallbackPort,
		Timeout:   cfg.Auth.CallbackTimeout(),
		NoBrowser: noBrowser,
		Input:     os.Stdin,
	}

	authenticator := auth.NewAuthenticator(msAuth, xboxAuth, mcAuth, granter)

	ctx := context.Background()
	bearer, err := authenticator.AcquireBearerToken(ctx)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err = mcAuth.CheckEntitlements(ctx, bearer); err != nil {
		if errors.Is(err, minecraft.ErrGameNotOwned) {
			log.Warn("this account does not own Minecraft (Game Pass accounts can report no entitlement)")
		} else {
			log.WithField("error", err).Warn("could not verify game ownership")
		}
	}

	profile, err := mcAuth.GetProfile(ctx, bearer)
	if err != nil {
		return fmt.Errorf("fetching profile: %w", err)
	}
	log.Infof("signed in as %s (uuid %s)", profile.Name, profile.ID)
	return nil
}

func runCreate(store *instance.Store, name string) error {
	m, err := store.Create(instance.NewInstanceModel(name))
	if err != nil {
		return fmt.Errorf("creating instance: %w", err)
	}
	log.Infof("created %q at %s", m.Name, m.Path)
	return nil
}

// runAddMod parses a name@version mod reference and appends it to the named
// instance's load order.
func runAddMod(store *instance.Store, instName, modRef, fileName string) error {
	if instName == "" {
		return fmt.Errorf("-add-mod requires -instance")
	}
	m, err := store.FirstByName(instName)
	if err != nil {
		return err
	}

	name, modVersion := modRef, ""
	if at := strings.LastIndex(modRef, "@"); at > 0 {
		name, modVersion = modRef[:at], modRef[at+1:]
	}
	if fileName == "" {
		fileName = strings.ToLower(strings.ReplaceAll(name, " ", "-"))
		if modVersion != "" {
			fileName += "-" + modVersion
		}
		fileName += ".jar"
	}

	mod := instance.Mod{
		Name:     name,
		Version:  modVersion,
		FileName: fileName,
		Enabled:  true,
	}
	if err = store.AddMod(m, mod); err != nil {
		return fmt.Errorf("adding mod: %w", err)
	}
	log.WithFields(log.Fields{"instance": m.Name}).Infof("added %s %s", name, modVersion)
	return nil
}

// runList renders the instance registry as a table.
func runList(store *instance.Store) {
	instances := store.All()
	if len(instances) == 0 {
		fmt.Println("No instances yet. Create one with -create NAME.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Name", "ID", "Mods", "RAM (MB)", "Last Modified", "Path"})
	for _, m := range instances {
		t.AppendRow(table.Row{
			m.Name,
			m.ID.String(),
			len(m.Mods),
			fmt.Sprintf("%d-%d", m.RAM.MinimumMB, m.RAM.MaximumMB),
			m.LastModified.Format("2006-01-02 15:04"),
			m.Path,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
