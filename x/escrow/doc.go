/*
Package escrow implements milestone based conditional payments.

An escrow is opened by a creator for a recipient in a single value unit
(mint). The creator declares up front how many milestones the payment is
split into and then allocates an amount to each of them. Anyone can fund
the escrow. Funds sit in a holding account that no key can sign for, its
address is derived from the escrow ID.

Milestones are completed and paid out strictly in order. Completing a
milestone records who verified it and when. Releasing moves the milestone
amount from the holding account to the recipient and advances the cursor.
Releasing the last milestone closes the escrow for good.

An escrow can also be closed out of band by the emergency extension,
which sweeps the holding account back to the creator (see Engine.Terminate).
*/
package escrow
