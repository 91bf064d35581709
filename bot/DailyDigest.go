package bot

import "fmt"
import "log"
import "regexp"
import "sort"
import "strings"
import "time"

import "gopkg.in/telegram-bot-api.v4"

import "github.com/AbuOrstho/fin-assistant/botcfg"
import "github.com/AbuOrstho/fin-assistant/ledger"

var digestTimeRe *regexp.Regexp = regexp.MustCompile("^(?:(\\d{1,2}):(\\d{2})|(disable))$")

// parseDigestArgument interprets the /digest argument: "HH:MM" yields an
// offset from UTC midnight, "disable" yields nil (back to the default). The
// match is anchored - the argument must be exactly one of the two forms.
func parseDigestArgument(arg string) (*time.Duration, error) {
	matches := digestTimeRe.FindStringSubmatch(arg)
	if matches == nil {
		return nil, fmt.Errorf("'%s' is neither HH:MM nor 'disable'", arg)
	}
	if matches[3] == "disable" {
		return nil, nil
	}
	t, err := botcfg.ParseDailyTime(matches[1] + ":" + matches[2])
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type ownerDigest struct {
	t       time.Time
	ownerId ledger.OwnerId
}

// dailyDigest pushes every owner a rendering of the previous day's log once
// per day, at the owner's configured time or the bot-wide default. It also
// handles /digest for changing that time (picked up on the next restart of
// the schedule, as the schedule is built once at startup).
type dailyDigest struct {
	baseHandler
	defaultOffset time.Duration
}

func newDailyDigest(l *ledger.Ledger, defaultOffset time.Duration) msgHandler {
	h := &dailyDigest{defaultOffset: defaultOffset}
	h.ledger = l
	return h
}

func (d *dailyDigest) register(out_msg_chan chan<- tgbotapi.Chattable,
	service_chan chan<- serviceMsg) handlerTrigger {
	msgCh := make(chan tgbotapi.Message, 0)
	d.in_msg_chan = msgCh
	d.out_msg_chan = out_msg_chan

	return handlerTrigger{cmds: []string{"digest"},
		in_msg_chan: msgCh}
}

// processDigestSchedule pops the owners whose delivery time has come and
// reschedules each of them 24h later.
func processDigestSchedule(schedule []ownerDigest, now time.Time) (newSchedule []ownerDigest, ownersToBeNotified []ledger.OwnerId) {
	ownersToBeNotified = make([]ledger.OwnerId, 0, 0)

	sort.Slice(schedule, func(x, y int) bool { return schedule[x].t.Before(schedule[y].t) })
	lastNotifIx := -1
	for i, entry := range schedule {
		t := entry.t
		if t.After(now) {
			break
		}
		lastNotifIx = i

		log.Printf("Need to send the daily digest to owner %d (delivery time %s)", entry.ownerId, t)
		ownersToBeNotified = append(ownersToBeNotified, entry.ownerId)

		nextTime := t.Add(time.Duration(24) * time.Hour)
		schedule = append(schedule, ownerDigest{t: nextTime, ownerId: entry.ownerId})
	}

	if lastNotifIx == -1 {
		newSchedule = schedule
	} else {
		newSchedule = schedule[lastNotifIx+1:]
	}
	return
}

// sendDigest renders and sends the previous calendar day. Any failure is
// logged and swallowed so one owner cannot break delivery to the others.
func (d *dailyDigest) sendDigest(owner ledger.OwnerId, now time.Time) {
	day := ledger.DayKey(now.UTC().AddDate(0, 0, -1))
	entries, err := d.ledger.ReadDay(owner, day)
	if err != nil {
		log.Printf("Digest for owner %d (day %s) failed; error: %s", owner, day, err)
		return
	}
	log.Printf("Sending digest of %s (%d entries) to owner %d", day, len(entries), owner)
	d.out_msg_chan <- tgbotapi.NewMessage(int64(owner), ledger.RenderDay(day, entries))
}

func (d *dailyDigest) handleDigestCmd(msg tgbotapi.Message) {
	owner := ledger.OwnerId(msg.Chat.ID)
	offset, err := parseDigestArgument(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		d.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "Usage: /digest HH:MM (UTC, hours 0-23 and minutes 0-59), or /digest disable to return to the default time.")
		return
	}

	if err := d.ledger.SetDigestTime(owner, offset); err != nil {
		log.Printf("Could not set digest time for %s; error: %s", dumpMsgUserInfo(msg), err)
		d.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "Could not change your digest time, please try again later.")
		return
	}
	log.Printf("Digest time of owner %d has been changed (%s)", owner, msg.Text)
	d.out_msg_chan <- tgbotapi.NewMessage(msg.Chat.ID, "Your digest settings have been updated; they take effect after the next bot restart.")
}

func (d *dailyDigest) run() {
	go d.scheduleLoop()

	for msg := range d.in_msg_chan {
		d.handleDigestCmd(msg)
	}
}

func (d *dailyDigest) scheduleLoop() {
	owners, err := d.ledger.Owners()
	if err != nil {
		log.Panicf("Cannot start daily digests as the owner registry is not readable; error: %s", err)
	}

	log.Printf("Starting daily digests for %d registered owners", len(owners))

	schedule := make([]ownerDigest, 0, len(owners))
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for id, data := range owners {
		offset := d.defaultOffset
		if data.DigestTime != nil {
			offset = *data.DigestTime
		}
		schedule = append(schedule, ownerDigest{t: startOfDay.Add(offset), ownerId: id})
	}
	// one pass with the current time skips today's already-passed deliveries
	schedule, _ = processDigestSchedule(schedule, time.Now())

	for {
		checkTime := time.Now()
		var ownersToBeNotified []ledger.OwnerId
		schedule, ownersToBeNotified = processDigestSchedule(schedule, checkTime)
		for _, owner := range ownersToBeNotified {
			d.sendDigest(owner, checkTime)
		}
		time.Sleep(time.Minute)
	}
}
