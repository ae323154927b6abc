//go:build linux

package picker

import (
	"context"
	"net/url"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	portalBusName      = "org.freedesktop.portal.Desktop"
	portalObjectPath   = "/org/freedesktop/portal/desktop"
	fileChooserMethod  = "org.freedesktop.portal.FileChooser.OpenFile"
	requestInterface   = "org.freedesktop.portal.Request"
	requestResponse    = requestInterface + ".Response"
	requestCloseMethod = requestInterface + ".Close"
)

// Request.Response codes.
const (
	portalResponseSuccess   uint32 = 0
	portalResponseCancelled uint32 = 1
)

// dbusPortal talks to xdg-desktop-portal on the session bus.
type dbusPortal struct{}

// Available reports whether the portal service currently owns its bus name.
func (dbusPortal) Available(ctx context.Context) bool {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return false
	}
	defer conn.Close()

	var has bool
	err = conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, portalBusName).Store(&has)
	return err == nil && has
}

// SelectDirectory runs the FileChooser.OpenFile handshake with directory=true
// and waits for the matching Request.Response signal.
func (dbusPortal) SelectDirectory(ctx context.Context, title string) (string, bool, error) {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return "", false, errors.Wrap(err, "failed to connect to session bus")
	}
	defer conn.Close()

	token := "dirbridge_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	names := conn.Names()
	if len(names) == 0 {
		return "", false, errors.New("session bus connection has no unique name")
	}
	sender := strings.ReplaceAll(strings.TrimPrefix(names[0], ":"), ".", "_")
	expected := dbus.ObjectPath(portalObjectPath + "/request/" + sender + "/" + token)

	// Subscribe before calling so a fast response cannot be missed.
	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(requestInterface),
		dbus.WithMatchMember("Response"),
	); err != nil {
		return "", false, errors.Wrap(err, "failed to subscribe to portal responses")
	}
	signals := make(chan *dbus.Signal, 4)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	options := map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(token),
		"directory":    dbus.MakeVariant(true),
		"modal":        dbus.MakeVariant(true),
	}
	var handle dbus.ObjectPath
	obj := conn.Object(portalBusName, portalObjectPath)
	if err := obj.CallWithContext(ctx, fileChooserMethod, 0, "", title, options).Store(&handle); err != nil {
		return "", false, errors.Wrap(err, "portal OpenFile call failed")
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.Object(portalBusName, handle).Call(requestCloseMethod, 0).Err
			return "", false, ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				return "", false, errors.New("session bus closed while waiting for portal")
			}
			if sig.Name != requestResponse || (sig.Path != handle && sig.Path != expected) {
				continue
			}
			return parsePortalResponse(sig.Body)
		}
	}
}

func parsePortalResponse(body []interface{}) (string, bool, error) {
	if len(body) < 2 {
		return "", false, errors.New("malformed portal response")
	}
	code, ok := body[0].(uint32)
	if !ok {
		return "", false, errors.New("malformed portal response code")
	}
	switch code {
	case portalResponseSuccess:
	case portalResponseCancelled:
		return "", false, nil
	default:
		return "", false, errors.Errorf("portal request ended with code %d", code)
	}

	results, _ := body[1].(map[string]dbus.Variant)
	uris, _ := results["uris"].Value().([]string)
	if len(uris) == 0 {
		return "", false, nil
	}
	u, err := url.Parse(uris[0])
	if err != nil {
		return "", false, errors.Wrap(err, "invalid portal uri")
	}
	if u.Scheme != "file" {
		return "", false, errors.Errorf("unsupported portal uri scheme %q", u.Scheme)
	}
	return u.Path, true, nil
}
