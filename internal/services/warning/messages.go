package warning

import (
	"fmt"
	"strings"

	"github.com/rzclan/warbot/internal/messaging"
	"github.com/rzclan/warbot/internal/model"
)

// ReasonManual marks an admin-issued punishment; its first warning gets
// a quiet acknowledgment instead of a group broadcast
const ReasonManual = "advertência manual"

func mentionHandle(p *model.Player) (handle string, jid string) {
	if strings.Contains(p.WhatsappID, "@") {
		return "@" + strings.SplitN(p.WhatsappID, "@", 2)[0], p.WhatsappID
	}
	return p.Name, ""
}

func jidHandle(jid string) string {
	return "@" + strings.SplitN(jid, "@", 2)[0]
}

// notification builds the tiered group message for a player who just
// reached count warnings. Severity escalates with the count; the final
// two tiers also summon the clan leader.
func (e *Engine) notification(p *model.Player, count int, reason string) messaging.OutgoingMessage {
	handle, jid := mentionHandle(p)
	var mentions []string
	if jid != "" {
		mentions = append(mentions, jid)
	}
	leader := jidHandle(e.leaderJID)

	switch {
	case count >= model.WarningCeiling:
		text := fmt.Sprintf("🚨 %s (Nick: *%s*) foi advertido(a) por *%s*.\n\n", handle, p.Name, reason)
		text += "📵 ATINGIU 5 ADVERTÊNCIAS E FOI REMOVIDO(A) DA LISTA 📵"
		return messaging.OutgoingMessage{Text: text, Mentions: mentions}

	case count == 4:
		text := "☠️ *SENTENÇA FINAL - EXPULSÃO IMINENTE* ☠️\n\n"
		text += fmt.Sprintf("%s (Nick: *%s*), sua permanência no clã está por um fio. Você atingiu **4/5 advertências**.\n\n", handle, p.Name)
		text += "*NÃO HÁ MAIS MARGEM PARA ERROS.*\n\n"
		text += "Considere esta a sua notificação final. A próxima infração, não importa qual seja, resultará na sua *remoção imediata e definitiva*. Sem negociação. Sem segundas chances.\n\n"
		text += fmt.Sprintf("Sua única e última esperança é contatar o líder %s *AGORA* e justificar por que você deve permanecer. A decisão dele será final.", leader)
		return messaging.OutgoingMessage{Text: text, Mentions: append(mentions, e.leaderJID)}

	case count == 3:
		text := "🔥 *ATENÇÃO: ZONA DE ALERTA* 🔥\n\n"
		text += fmt.Sprintf("%s (Nick: *%s*), você atingiu **3/5 advertências**.\n\n", handle, p.Name)
		text += "Este é um aviso sério. Para evitar futuras penalidades, você precisa agir.\n\n"
		text += "*Sua missão:*\n"
		text += fmt.Sprintf("1. Converse com o líder %s para entender como melhorar.\n", leader)
		text += "2. Adote a TAG oficial do clã: `《☆》ᴿᶻ`\n\n"
		text += "Ao fazer isso, a liderança poderá reavaliar seu caso. Não deixe para depois!"
		return messaging.OutgoingMessage{Text: text, Mentions: append(mentions, e.leaderJID)}

	case count == 2:
		text := fmt.Sprintf("🔥 %s (Nick: *%s*) entrou na *ZONA DE RISCO*. Total agora: %d/5.", handle, p.Name, count)
		return messaging.OutgoingMessage{Text: text, Mentions: mentions}

	default:
		if reason == ReasonManual {
			return messaging.OutgoingMessage{
				Text: fmt.Sprintf("✅ Advertência manual aplicada a *%s*. Total agora: %d/5.", p.Name, count),
			}
		}
		text := fmt.Sprintf("🚨 %s (Nick: *%s*) foi advertido(a) por *%s*. Total agora: %d/5.", handle, p.Name, reason, count)
		return messaging.OutgoingMessage{Text: text, Mentions: mentions}
	}
}

func absenceReason(dayIndex int, sweep bool) string {
	suffix := "advertência tardia"
	if sweep {
		suffix = "verificação pós-guerra"
	}
	return fmt.Sprintf("não participar da guerra de %s (%s)", model.DayNames[dayIndex], suffix)
}
