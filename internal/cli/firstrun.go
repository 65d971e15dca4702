package cli

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/fsnotify/fsnotify"

	"parityshell/config"
	"parityshell/internal/firstrun"
	"parityshell/internal/settings"
)

func visibilityLabel(visible bool) string {
	if visible {
		return "Shown"
	}
	return "Hidden"
}

// FirstRunStatus prints whether the welcome overlay would be shown.
func FirstRunStatus(st settings.Store) error {
	_, present, err := st.Get(firstrun.StorageKey)
	if err != nil {
		return err
	}
	fmt.Println(visibilityLabel(!present))
	return nil
}

// WatchFirstRunStatus reprints the overlay state whenever another process
// changes the settings database. Blocks until ctx is done.
func WatchFirstRunStatus(ctx context.Context, st settings.Store) error {
	dbPath, err := config.GetSettingsDBPath()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(dbPath)); err != nil {
		return fmt.Errorf("watch settings directory: %w", err)
	}

	readVisible := func() (bool, error) {
		_, present, err := st.Get(firstrun.StorageKey)
		return !present, err
	}

	last, err := readVisible()
	if err != nil {
		return err
	}
	fmt.Println(visibilityLabel(last))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// WAL mode lands writes in settings.db-wal before checkpoint.
			if !strings.HasPrefix(filepath.Clean(event.Name), filepath.Clean(dbPath)) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// Let the writer's transaction land.
			time.Sleep(50 * time.Millisecond)

			visible, err := readVisible()
			if err != nil {
				log.Printf("Error reading first-run flag: %v", err)
				continue
			}
			if visible != last {
				last = visible
				fmt.Println(visibilityLabel(visible))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Settings watcher error: %v", err)
		}
	}
}

// FirstRunDismiss records that the welcome overlay should not be shown
// again. With confirm set it asks first.
func FirstRunDismiss(st settings.Store, confirm bool) error {
	if confirm {
		proceed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Hide the welcome screen?").
				Description("It will not be shown again unless you run 'pshell firstrun reset'.").
				Affirmative("Hide").
				Negative("Cancel").
				Value(&proceed),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !proceed {
			fmt.Println("Cancelled")
			return nil
		}
	}

	store, err := firstrun.New(st, nil, nil)
	if err != nil {
		return err
	}
	if err := store.Toggle(false); err != nil {
		return err
	}
	fmt.Println("Welcome screen hidden")
	return nil
}

// FirstRunReset forgets any recorded dismissal, including one under the
// legacy key. The overlay shows again on the next start.
func FirstRunReset(st settings.Store) error {
	if err := st.Remove(firstrun.StorageKey); err != nil {
		return err
	}
	if err := st.Remove(firstrun.LegacyStorageKey); err != nil {
		return err
	}
	fmt.Println("Welcome screen reset; it will be shown on the next start")
	return nil
}

// FirstRunCheck runs the account-presence probe in the foreground and
// reports the resulting overlay state.
func FirstRunCheck(ctx context.Context, st settings.Store) error {
	client, err := ConnectDaemon()
	if err != nil {
		return fmt.Errorf("connect to daemon: %w", err)
	}
	defer client.Close()

	store, err := firstrun.New(st, client, nil)
	if err != nil {
		return err
	}

	var done <-chan struct{}
	err = spinner.New().
		Title("Checking the daemon for accounts and vaults...").
		Action(func() {
			done = store.Start(ctx)
			<-done
		}).
		Run()
	if err != nil {
		return err
	}

	fmt.Printf("Welcome screen: %s\n", visibilityLabel(store.Visible()))
	return nil
}
