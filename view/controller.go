package view

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/raushankrgupta/vogue-styler/gemini"
	"github.com/raushankrgupta/vogue-styler/models"
	"github.com/raushankrgupta/vogue-styler/session"
	"github.com/raushankrgupta/vogue-styler/stylist"
)

// LookStore is the slice of the record store the controller needs.
type LookStore interface {
	Put(ctx context.Context, look models.SavedLook) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.SavedLook, error)
	ListByUser(ctx context.Context, userID string) ([]models.SavedLook, error)
}

// AccountStore is the slice of the account store the controller needs.
type AccountStore interface {
	Register(ctx context.Context, email, password, name string, gender models.Gender) (*models.UserAccount, error)
	Authenticate(ctx context.Context, email, password string) (*models.UserAccount, error)
	FindByID(ctx context.Context, id string) (*models.UserAccount, error)
}

// ImageOffloader moves look image payloads to external object storage on
// save and rehydrates them with fetchable URLs on read. A nil offloader
// leaves data URIs inline.
type ImageOffloader interface {
	OffloadLook(ctx context.Context, look *models.SavedLook) error
	HydrateLooks(ctx context.Context, looks []models.SavedLook)
}

// Default digital-model photos, used until the user uploads their own.
const (
	defaultFemaleModel = "https://images.unsplash.com/photo-1544005313-94ddf0286df2?q=80&w=1000&auto=format&fit=crop"
	defaultMaleModel   = "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?q=80&w=1000&auto=format&fit=crop"
)

// ErrNoPendingResult is returned when saving with nothing finalized, or
// saving while logged out.
var ErrNoPendingResult = errors.New("no pending result to save")

// Config wires a controller's collaborators.
type Config struct {
	DeviceID    string
	Accounts    AccountStore
	Looks       LookStore
	Sessions    *session.Manager
	Generator   stylist.Generator
	Images      ImageOffloader // optional
	SplashDelay time.Duration  // splash hold time when no session is found
}

// Controller owns one device's app state: the current view, the
// authenticated account, the selection machine, and the cached favorites
// list. All mutation goes through its methods; the HTTP layer is a thin
// translation over it.
type Controller struct {
	cfg Config

	mu         sync.Mutex
	view       View
	user       *models.UserAccount
	prefs      models.Preferences
	machine    *stylist.Machine
	savedLooks []models.SavedLook
	activeLook *models.SavedLook
	result     *models.GeneratedResult

	loads sync.WaitGroup
}

// NewController returns a controller sitting on the splash view.
func NewController(cfg Config) *Controller {
	c := &Controller{
		cfg:   cfg,
		view:  Splash,
		prefs: models.Preferences{Gender: models.GenderFemale},
	}
	c.machine = stylist.NewMachine(cfg.Generator, c.baseImageLocked())
	return c
}

// baseImageLocked is the image edits start from: the user's uploaded model
// photo, or the default model for the preferred gender.
func (c *Controller) baseImageLocked() string {
	if c.prefs.ModelImage != "" {
		return c.prefs.ModelImage
	}
	if c.prefs.Gender == models.GenderMale {
		return defaultMaleModel
	}
	return defaultFemaleModel
}

// Bootstrap restores persisted session state. A resolvable session user id
// restores the account, its preferences and (asynchronously) its saved
// looks, then lands on home immediately. An unresolvable id is cleared.
// Without a session the splash view holds for SplashDelay before
// auto-transitioning to home.
func (c *Controller) Bootstrap(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	userID, err := c.cfg.Sessions.CurrentUser(ctx, c.cfg.DeviceID)
	if err != nil {
		log.Printf("session lookup failed for device %s: %v", c.cfg.DeviceID, err)
	}

	if userID != "" {
		user, err := c.cfg.Accounts.FindByID(ctx, userID)
		if err != nil {
			log.Printf("session account lookup failed: %v", err)
		}
		if user != nil {
			c.restoreUserLocked(ctx, user)
			c.view = Home
			return
		}
		// Stale session id: tear it down rather than carrying it forward.
		if err := c.cfg.Sessions.ClearCurrentUser(ctx, c.cfg.DeviceID); err != nil {
			log.Printf("failed to clear stale session: %v", err)
		}
		c.view = Home
		return
	}

	if c.cfg.SplashDelay <= 0 {
		c.view = Home
		return
	}
	time.AfterFunc(c.cfg.SplashDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.view == Splash {
			c.view = Home
		}
	})
}

// restoreUserLocked loads the account's preferences and kicks off the
// asynchronous favorites load. Caller holds c.mu.
func (c *Controller) restoreUserLocked(ctx context.Context, user *models.UserAccount) {
	c.user = user
	c.prefs = models.Preferences{Gender: user.Gender}
	if prefs, err := c.cfg.Sessions.Preferences(ctx, user.ID); err != nil {
		log.Printf("preference load failed for %s: %v", user.ID, err)
	} else if prefs != nil {
		c.prefs = *prefs
	}
	c.machine.ResetPreview(c.baseImageLocked())

	userID := user.ID
	c.loads.Add(1)
	go func() {
		defer c.loads.Done()
		looks, err := c.cfg.Looks.ListByUser(context.Background(), userID)
		if err != nil {
			log.Printf("saved look load failed for %s: %v", userID, err)
			return
		}
		if c.cfg.Images != nil {
			c.cfg.Images.HydrateLooks(context.Background(), looks)
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.user != nil && c.user.ID == userID {
			c.savedLooks = looks
		}
	}()
}

// Navigate applies the guard table and moves to the target view, or to the
// guard's fallback. It returns the view actually entered. Unknown targets
// and splash are ignored.
func (c *Controller) Navigate(target View) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.navigateLocked(target)
}

func (c *Controller) navigateLocked(target View) View {
	if !Valid(target) || target == Splash {
		return c.view
	}

	r := transitions[target]
	if r.requiresAuth && c.user == nil {
		c.view = Login
		return c.view
	}
	if r.requiresLook && c.activeLook == nil {
		c.view = r.lookFallback
		return c.view
	}

	// A fresh studio session starts from the base image, not a stale
	// preview left by a prior edit.
	if target == Studio && c.result == nil {
		c.machine.ResetPreview(c.baseImageLocked())
	}
	c.view = target
	return c.view
}

// Register creates an account and moves to login. Validation failures leave
// the view unchanged.
func (c *Controller) Register(ctx context.Context, email, password, name string, gender models.Gender) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.cfg.Accounts.Register(ctx, email, password, name, gender); err != nil {
		return err
	}
	c.view = Login
	return nil
}

// Login authenticates, persists the device session, restores preferences
// and saved looks, and moves home. Failures leave the view unchanged.
func (c *Controller) Login(ctx context.Context, email, password string) (*models.UserAccount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.cfg.Accounts.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := c.cfg.Sessions.SetCurrentUser(ctx, c.cfg.DeviceID, user.ID); err != nil {
		log.Printf("failed to persist session: %v", err)
	}
	c.restoreUserLocked(ctx, user)
	c.view = Home
	return user, nil
}

// Logout tears the session down explicitly and returns to home.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.cfg.Sessions.ClearCurrentUser(ctx, c.cfg.DeviceID); err != nil {
		log.Printf("failed to clear session: %v", err)
	}
	c.user = nil
	c.savedLooks = nil
	c.activeLook = nil
	c.result = nil
	c.prefs = models.Preferences{Gender: models.GenderFemale}
	c.machine.ResetPreview(c.baseImageLocked())
	c.view = Home
}

// Choose forwards a catalog pick to the selection machine.
func (c *Controller) Choose(opt models.StyleOption) {
	c.machine.Choose(opt)
}

// SetStyleText forwards free-text style input to the selection machine.
func (c *Controller) SetStyleText(text string) {
	c.machine.SetStyleText(text)
}

// Preview returns the current preview image and loading state.
func (c *Controller) Preview() (string, bool) {
	return c.machine.Preview()
}

// Selection returns the in-progress selection.
func (c *Controller) Selection() models.CurrentSelection {
	return c.machine.Selection()
}

// Finalize snapshots the preview into a pending result and shows the result
// view.
func (c *Controller) Finalize() models.GeneratedResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := c.machine.Finalize()
	c.result = &res
	c.view = Result
	return res
}

// DiscardResult drops the pending result and returns home.
func (c *Controller) DiscardResult() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = nil
	c.view = Home
}

// SaveResult persists the pending result as a SavedLook. The in-memory
// favorites list is only updated after the store write succeeds; a store
// failure leaves everything, including the pending result, as it was.
func (c *Controller) SaveResult(ctx context.Context) (*models.SavedLook, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result == nil || c.user == nil {
		return nil, ErrNoPendingResult
	}

	sel := c.machine.Selection()
	thumbs := map[string]string{}
	for _, opt := range []*models.StyleOption{sel.Hairstyle, sel.Top, sel.Bottom} {
		if opt == nil {
			continue
		}
		thumb := opt.ThumbnailURL
		if thumb == "" {
			thumb = gemini.FallbackThumbnailURL
		}
		thumbs[opt.ID] = thumb
	}

	look := models.SavedLook{
		ID:          models.NewLookID(time.Now()),
		UserID:      c.user.ID,
		ResultURL:   c.result.ResultURL,
		OriginalURL: c.result.OriginalURL,
		Selections:  sel,
		Thumbnails:  thumbs,
		Timestamp:   time.Now().UnixMilli(),
		Gender:      c.prefs.Gender,
	}

	// The stored copy may swap inline images for object keys; the cached
	// copy keeps the renderable URLs the client just produced.
	stored := look
	if c.cfg.Images != nil {
		if err := c.cfg.Images.OffloadLook(ctx, &stored); err != nil {
			return nil, err
		}
	}
	if err := c.cfg.Looks.Put(ctx, stored); err != nil {
		return nil, err
	}

	c.savedLooks = append([]models.SavedLook{look}, c.savedLooks...)
	c.result = nil
	c.view = Favorites
	return &look, nil
}

// DeleteLook removes a saved look from the store and the cached list, then
// shows favorites. Deleting the active look clears it.
func (c *Controller) DeleteLook(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.cfg.Looks.Delete(ctx, id); err != nil {
		return err
	}
	// Clear the active look before compacting: the in-place filter shifts
	// entries and must not be able to repoint it.
	if c.activeLook != nil && c.activeLook.ID == id {
		c.activeLook = nil
	}
	kept := c.savedLooks[:0]
	for _, l := range c.savedLooks {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	c.savedLooks = kept
	c.view = Favorites
	return nil
}

// OpenLook activates a saved look and enters its detail view. An unknown id
// redirects to favorites.
func (c *Controller) OpenLook(ctx context.Context, id string) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	var found *models.SavedLook
	for i := range c.savedLooks {
		if c.savedLooks[i].ID == id {
			// Copy out of the cache: the active look must not alias slice
			// slots that later deletes compact in place.
			l := c.savedLooks[i]
			found = &l
			break
		}
	}
	if found == nil {
		look, err := c.cfg.Looks.Get(ctx, id)
		if err != nil {
			log.Printf("look lookup failed: %v", err)
		}
		if look != nil && c.user != nil && look.UserID == c.user.ID {
			found = look
		}
	}

	if found == nil {
		c.activeLook = nil
	} else {
		c.activeLook = found
	}
	return c.navigateLocked(LookDetail)
}

// EditFromLook reloads the active look's selections and result into the
// studio for further editing. The stale-preview reset is deliberately
// bypassed: the restored result is the new starting point.
func (c *Controller) EditFromLook() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		c.view = Login
		return c.view
	}
	if c.activeLook == nil {
		c.view = Favorites
		return c.view
	}
	c.machine.Restore(c.activeLook.Selections, c.baseImageLocked(), c.activeLook.ResultURL)
	c.view = Studio
	return c.view
}

// SetGender updates the try-on preference and persists the preference blob.
func (c *Controller) SetGender(ctx context.Context, gender models.Gender) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs.Gender = gender
	c.persistPrefsLocked(ctx)
	if c.result == nil {
		c.machine.ResetPreview(c.baseImageLocked())
	}
}

// SetAvatar updates the profile avatar and persists the preference blob.
func (c *Controller) SetAvatar(ctx context.Context, avatarURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs.AvatarURL = avatarURL
	c.persistPrefsLocked(ctx)
}

// SetModelImage replaces (or, with "", resets) the user's own model photo.
func (c *Controller) SetModelImage(ctx context.Context, image string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs.ModelImage = image
	c.persistPrefsLocked(ctx)
	if c.result == nil {
		c.machine.ResetPreview(c.baseImageLocked())
	}
}

func (c *Controller) persistPrefsLocked(ctx context.Context) {
	if c.user == nil {
		return
	}
	if err := c.cfg.Sessions.SavePreferences(ctx, c.user.ID, c.prefs); err != nil {
		log.Printf("preference save failed for %s: %v", c.user.ID, err)
	}
}

// CurrentView returns the view being shown.
func (c *Controller) CurrentView() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// CurrentUser returns the authenticated account, or nil.
func (c *Controller) CurrentUser() *models.UserAccount {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Preferences returns the active preference blob.
func (c *Controller) Preferences() models.Preferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs
}

// SavedLooks returns the cached favorites list, newest first.
func (c *Controller) SavedLooks() []models.SavedLook {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.SavedLook, len(c.savedLooks))
	copy(out, c.savedLooks)
	return out
}

// ActiveLook returns the look open in the detail view, or nil.
func (c *Controller) ActiveLook() *models.SavedLook {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLook
}

// PendingResult returns the finalized-but-unsaved result, or nil.
func (c *Controller) PendingResult() *models.GeneratedResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Wait blocks until asynchronous loads and generations settle.
func (c *Controller) Wait() {
	c.loads.Wait()
	c.machine.Wait()
}
