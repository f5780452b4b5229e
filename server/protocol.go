package server

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/armon/go-radix"
	"github.com/fixkme/ticktimer/errs"
	"github.com/rs/xid"
)

// 一行一条命令:
//
//	ARM <ms> [label]     -> OK <id>
//	ARMSEC <s> [label]   -> OK <id>
//	CANCEL <id>          -> OK | ERR unknown timer
//	ISSUE                -> ISSUE <ms> | ISSUE NONE
//	PENDING              -> PENDING <n>
//	QUIT
//
// 到期推送: FIRED <id> [label]
const maxLineLen = 4096

type handlerFunc func(s *Service, sess *Session, args []string) (string, error)

var router = newRouter()

func newRouter() *radix.Tree {
	tree := radix.New()
	tree.Insert("ARM", handlerFunc(handleArm))
	tree.Insert("ARMSEC", handlerFunc(handleArmSec))
	tree.Insert("CANCEL", handlerFunc(handleCancel))
	tree.Insert("ISSUE", handlerFunc(handleIssue))
	tree.Insert("PENDING", handlerFunc(handlePending))
	return tree
}

// Dispatch 执行一行命令, 返回应答(不含换行)以及是否关闭连接
func (s *Service) Dispatch(sess *Session, line string) (reply string, quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	cmd := strings.ToUpper(fields[0])
	if cmd == "QUIT" {
		return "", true
	}
	v, ok := router.Get(cmd)
	if !ok {
		return "ERR unknown command " + fields[0], false
	}
	reply, err := v.(handlerFunc)(s, sess, fields[1:])
	if err != nil {
		return "ERR " + reason(err), false
	}
	return reply, false
}

// reason CodeError的描述为"CODE,reason", 应答只带reason部分
func reason(err error) string {
	msg := err.Error()
	var ce errs.CodeError
	if errors.As(err, &ce) {
		if i := strings.IndexByte(msg, ','); i >= 0 {
			return msg[i+1:]
		}
	}
	return msg
}

func parseArm(args []string) (int64, string, error) {
	if len(args) == 0 || len(args) > 2 {
		return 0, "", errs.Protocol.Printf("usage: <amount> [label]")
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || n <= 0 {
		return 0, "", errs.Protocol.Printf("invalid duration %s", args[0])
	}
	var label string
	if len(args) == 2 {
		label = args[1]
	}
	return n, label, nil
}

func armReply(s *Service, sess *Session, msec int64, label string) (string, error) {
	id, err := s.Arm(sess, msec, label)
	if err != nil {
		return "", err
	}
	return "OK " + id.String(), nil
}

func handleArm(s *Service, sess *Session, args []string) (string, error) {
	msec, label, err := parseArm(args)
	if err != nil {
		return "", err
	}
	return armReply(s, sess, msec, label)
}

func handleArmSec(s *Service, sess *Session, args []string) (string, error) {
	sec, label, err := parseArm(args)
	if err != nil {
		return "", err
	}
	const maxSec = 1 << 40
	if sec > maxSec {
		sec = maxSec
	}
	return armReply(s, sess, sec*1000, label)
}

func handleCancel(s *Service, sess *Session, args []string) (string, error) {
	if len(args) != 1 {
		return "", errs.Protocol.Printf("usage: CANCEL <id>")
	}
	id, err := xid.FromString(args[0])
	if err != nil {
		return "", errs.Protocol.Printf("invalid timer id")
	}
	if err := s.Cancel(sess, id); err != nil {
		return "", err
	}
	return "OK", nil
}

func handleIssue(s *Service, _ *Session, _ []string) (string, error) {
	return formatIssue(s.Issue()), nil
}

func handlePending(s *Service, _ *Session, _ []string) (string, error) {
	return "PENDING " + strconv.Itoa(s.Pending()), nil
}

// splitLines 切出完整的行, 去掉行尾的\r, 返回剩余不完整的部分
func splitLines(buf []byte) (lines []string, rest []byte) {
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			return lines, buf
		}
		lines = append(lines, strings.TrimSuffix(string(buf[:i]), "\r"))
		buf = buf[i+1:]
	}
}
