package mcpserver

// ProcessCodeContract describes the process id scheme that all scheduling
// tools use.
const ProcessCodeContract = `# Gekkan Process Code Scheme

Every production process is identified by a short code of the form
` + "`" + `{category}-{sequence}` + "`" + `, e.g. ` + "`" + `A-3` + "`" + ` or ` + "`" + `H-4` + "`" + `.

## Categories

Categories are single letters A through S, one per magazine section or
external relationship (A 表紙, B 特集, C 連載, D インタビュー, E タウン情報,
F イベント情報, G 読者プレゼント, H 広告レギュラー, I 求人広告, J 不動産広告,
K スクール特集, L クーポン, M 占い, N 表4広告, O 編集後記, P 校正, Q 印刷,
R 配本, S 進行管理). Use the ` + "`" + `GET /api/masters/processes` + "`" + ` endpoint or the
issue_board tool to see the full active table.

## Process kinds

- **dated** — completes when an actual date is logged. Its status is derived
  by comparing today against the planned date.
- **confirmation** — completes through the client sign-off cycle: one or
  more versioned drafts, each marked OK or needs_revision, ending in a
  finalize step. Use the advance_confirmation tool.

## Dates

- Issue labels look like ` + "`" + `2025年12月号` + "`" + ` (derived from the publish date).
- Planned dates are month/day only, e.g. ` + "`" + `10/30` + "`" + ` — the year is implied by
  the issue's production window.
- Actual and draft dates are full ISO dates, ` + "`" + `YYYY-MM-DD` + "`" + `.

## Rules

1. A process is **ready** when every prerequisite process for the same issue
   is completed, including the category's データ入稿 (data submission) gate.
2. A process with no planned date is never reported as delayed.
3. Draft versions start at 1 and increase by one per sent draft. Omit the
   version on add_draft to use the next free one.
`
